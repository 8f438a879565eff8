package conversation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vamshik/iplbot/internal/textutil"
)

const keyPhraseTokens = 5

// LearnedEntry is one curated trigger/reply pair.
type LearnedEntry struct {
	Trigger  string
	Response string
}

// LearnedStore is the file-backed table of curated trigger/reply pairs,
// kept in insertion order per language. Learn rewrites the whole file
// synchronously; an absent file is an empty table and a malformed one
// is logged and reset to empty.
type LearnedStore struct {
	mu      sync.Mutex
	path    string
	entries map[textutil.Language][]LearnedEntry
	log     *slog.Logger
}

// NewLearnedStore loads the table from path.
func NewLearnedStore(path string, log *slog.Logger) *LearnedStore {
	s := &LearnedStore{
		path:    path,
		entries: map[textutil.Language][]LearnedEntry{},
		log:     log.With("component", "learned_store"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error("Failed to read learned responses file, starting empty", "path", path, "error", err)
		}
		return s
	}

	entries, err := decodeLearned(data)
	if err != nil {
		s.log.Error("Malformed learned responses file, resetting to empty", "path", path, "error", err)
		return s
	}
	s.entries = entries

	total := 0
	for _, list := range entries {
		total += len(list)
	}
	s.log.Info("Loaded learned responses", "count", total)
	return s
}

// Learn stores a curated reply keyed by the text's key phrase (first
// five case-folded tokens) and persists the whole table to disk before
// returning.
func (s *LearnedStore) Learn(text, response string, language textutil.Language) error {
	trigger := textutil.KeyPhrase(text, keyPhraseTokens)
	if trigger == "" {
		return fmt.Errorf("cannot learn an empty trigger")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[language]
	updated := false
	for i := range list {
		if list[i].Trigger == trigger {
			list[i].Response = response
			updated = true
			break
		}
	}
	if !updated {
		list = append(list, LearnedEntry{Trigger: trigger, Response: response})
	}
	s.entries[language] = list

	if err := s.save(); err != nil {
		s.log.Error("Failed to save learned responses", "error", err)
		return err
	}
	return nil
}

// Lookup scans the language's entries in insertion order and returns
// the first whose trigger is a case-insensitive substring of the input.
func (s *LearnedStore) Lookup(text string, language textutil.Language) (string, bool) {
	lower := strings.ToLower(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries[language] {
		if strings.Contains(lower, strings.ToLower(e.Trigger)) {
			return e.Response, true
		}
	}
	return "", false
}

// Entries returns a copy of the language's table in insertion order.
func (s *LearnedStore) Entries(language textutil.Language) []LearnedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LearnedEntry, len(s.entries[language]))
	copy(out, s.entries[language])
	return out
}

// save writes the whole table to a temp file and renames it over the
// target. Caller holds the mutex.
func (s *LearnedStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create learned responses directory: %w", err)
	}

	data, err := encodeLearned(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode learned responses: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write learned responses: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace learned responses file: %w", err)
	}
	return nil
}

// The on-disk format is a JSON object of language -> trigger ->
// response. Plain map marshaling would sort the triggers, losing
// insertion order, so encoding and decoding walk the object manually.

func encodeLearned(entries map[textutil.Language][]LearnedEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	for i, lang := range []textutil.Language{textutil.LanguageEnglish, textutil.LanguageTelugu} {
		if i > 0 {
			buf.WriteString(",\n")
		}
		key, _ := json.Marshal(string(lang))
		buf.Write(key)
		buf.WriteString(": {")
		for j, e := range entries[lang] {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString("\n    ")
			t, _ := json.Marshal(e.Trigger)
			r, err := json.Marshal(e.Response)
			if err != nil {
				return nil, err
			}
			buf.Write(t)
			buf.WriteString(": ")
			buf.Write(r)
		}
		if len(entries[lang]) > 0 {
			buf.WriteString("\n  ")
		}
		buf.WriteByte('}')
	}

	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

func decodeLearned(data []byte) (map[textutil.Language][]LearnedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	entries := map[textutil.Language][]LearnedEntry{}
	for dec.More() {
		langTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		lang, ok := langTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected language key, got %v", langTok)
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		var list []LearnedEntry
		for dec.More() {
			trigTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			trigger, ok := trigTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected trigger key, got %v", trigTok)
			}
			var response string
			if err := dec.Decode(&response); err != nil {
				return nil, fmt.Errorf("invalid response for trigger %q: %w", trigger, err)
			}
			list = append(list, LearnedEntry{Trigger: trigger, Response: response})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		entries[textutil.ParseLanguage(lang)] = list
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return entries, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
