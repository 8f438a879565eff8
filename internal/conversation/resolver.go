package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/vamshik/iplbot/internal/ipldata"
	"github.com/vamshik/iplbot/internal/metrics"
	"github.com/vamshik/iplbot/internal/nlp"
	"github.com/vamshik/iplbot/internal/storage"
	"github.com/vamshik/iplbot/internal/textutil"
)

// Source identifies which step of the chain produced the reply.
type Source string

const (
	SourceGemini   Source = "gemini"
	SourceCustom   Source = "custom"
	SourceLearned  Source = "learned"
	SourceBank     Source = "bank"
	SourceData     Source = "data"
	SourceFallback Source = "fallback"
)

// AIClient is the remote generative capability the resolver depends on.
type AIClient interface {
	Available() bool
	Chat(ctx context.Context, message string, language textutil.Language) (string, error)
}

// MessageStore is the slice of the storage tier the resolver uses.
type MessageStore interface {
	AppendMessage(ctx context.Context, m *storage.Message) error
	ListCustomResponses(ctx context.Context) ([]storage.CustomResponse, error)
}

// Incoming is one inbound chat message.
type Incoming struct {
	UserID    int64
	MessageID int64
	ChatID    int64
	Text      string
	IsGroup   bool
}

// Resolution is the resolver's outcome: exactly one reply per call.
type Resolution struct {
	Reply    string
	Language textutil.Language
	Source   Source
}

// Config wires the resolver's collaborators.
type Config struct {
	AI        AIClient
	Learned   *LearnedStore
	Banks     *Banks
	Catalog   *ipldata.Catalog
	Store     MessageStore
	Logger    *slog.Logger
	AITimeout time.Duration

	// RandInt picks the bank phrase index; defaults to math/rand.
	RandInt func(n int) int
}

// Resolver walks the fallback chain: remote AI, curated responses,
// canned banks, domain data lookup, generic fallback. Every step
// failure is absorbed and the chain continues; the worst case reply is
// a fallback-bank phrase.
type Resolver struct {
	ai        AIClient
	learned   *LearnedStore
	banks     *Banks
	catalog   *ipldata.Catalog
	store     MessageStore
	log       *slog.Logger
	aiTimeout time.Duration
	randInt   func(n int) int
}

// NewResolver builds a resolver from its collaborators.
func NewResolver(cfg Config) *Resolver {
	randInt := cfg.RandInt
	if randInt == nil {
		randInt = rand.Intn
	}
	aiTimeout := cfg.AITimeout
	if aiTimeout <= 0 {
		aiTimeout = 30 * time.Second
	}
	return &Resolver{
		ai:        cfg.AI,
		learned:   cfg.Learned,
		banks:     cfg.Banks,
		catalog:   cfg.Catalog,
		store:     cfg.Store,
		log:       cfg.Logger.With("component", "resolver"),
		aiTimeout: aiTimeout,
		randInt:   randInt,
	}
}

// Resolve produces exactly one reply for the message and persists it as
// a bot-authored record linked to the inbound message id. It never
// returns an error to the transport.
func (r *Resolver) Resolve(ctx context.Context, msg Incoming, preference textutil.Language) Resolution {
	// Script override: a Telugu-script message is answered in Telugu
	// regardless of the stored preference.
	language := preference
	if language == "" {
		language = textutil.LanguageEnglish
	}
	if textutil.IsTelugu(msg.Text) {
		language = textutil.LanguageTelugu
	}

	reply, source := r.resolveText(ctx, msg.Text, language)

	res := Resolution{Reply: reply, Language: language, Source: source}
	metrics.RepliesTotal.WithLabelValues(string(source), string(language)).Inc()
	r.persistReply(ctx, msg, res)
	return res
}

func (r *Resolver) resolveText(ctx context.Context, text string, language textutil.Language) (string, Source) {
	// One remote attempt, soft-failing into the rest of the chain.
	if r.ai != nil && r.ai.Available() {
		aiCtx, cancel := context.WithTimeout(ctx, r.aiTimeout)
		reply, err := r.ai.Chat(aiCtx, text, language)
		cancel()
		switch {
		case err != nil:
			r.log.WarnContext(ctx, "AI attempt failed, continuing chain", "error", err)
		case strings.TrimSpace(reply) == "":
			r.log.WarnContext(ctx, "AI attempt returned empty reply, continuing chain")
		default:
			return reply, SourceGemini
		}
	}

	// Curated lookups: admin custom responses from the storage tier,
	// then the learned table. Both are substring matches in insertion
	// order.
	if reply, ok := r.lookupCustom(ctx, text); ok {
		return reply, SourceCustom
	}
	if r.learned != nil {
		if reply, ok := r.learned.Lookup(text, language); ok {
			return reply, SourceLearned
		}
	}

	if kind := r.banks.Classify(text); kind != BankNone {
		return r.pick(kind, language), SourceBank
	}

	if reply, ok := r.resolveIntent(text, language); ok {
		return reply, SourceData
	}

	return r.pick(BankFallback, language), SourceFallback
}

func (r *Resolver) lookupCustom(ctx context.Context, text string) (string, bool) {
	if r.store == nil {
		return "", false
	}
	responses, err := r.store.ListCustomResponses(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "Custom response lookup failed, continuing chain", "error", err)
		return "", false
	}

	lower := strings.ToLower(text)
	for _, cr := range responses {
		if cr.Trigger != "" && strings.Contains(lower, strings.ToLower(cr.Trigger)) {
			return cr.Response, true
		}
	}
	return "", false
}

func (r *Resolver) resolveIntent(text string, language textutil.Language) (string, bool) {
	intent := nlp.DetectIntent(text)
	if intent == nlp.IntentConversation {
		return "", false
	}
	entities := nlp.ExtractEntities(text, intent)

	switch intent {
	case nlp.IntentPlayerInfo, nlp.IntentStatsInfo:
		name, ok := entities[nlp.SlotPlayerName]
		if !ok {
			return "", false
		}
		player := r.catalog.FindPlayer(name)
		if player == nil {
			return "", false
		}
		return formatPlayer(player, language), true

	case nlp.IntentTeamInfo:
		name, ok := entities[nlp.SlotTeamName]
		if !ok {
			return "", false
		}
		team := r.catalog.FindTeam(name)
		if team == nil {
			return "", false
		}
		return formatTeam(team, language), true

	case nlp.IntentMatchInfo:
		t1, ok1 := entities[nlp.SlotTeam1]
		t2, ok2 := entities[nlp.SlotTeam2]
		if !ok1 || !ok2 {
			return "", false
		}
		match := r.catalog.FindMatch(t1, t2)
		if match == nil {
			return "", false
		}
		return formatMatch(match, language), true
	}

	return "", false
}

func (r *Resolver) pick(kind BankKind, language textutil.Language) string {
	bank := r.banks.Phrases(kind, language)
	return bank[r.randInt(len(bank))]
}

func (r *Resolver) persistReply(ctx context.Context, msg Incoming, res Resolution) {
	if r.store == nil {
		return
	}
	record := &storage.Message{
		UserID:        msg.UserID,
		Text:          res.Reply,
		Timestamp:     time.Now().UTC(),
		ChatID:        msg.ChatID,
		IsGroup:       msg.IsGroup,
		IsBotResponse: true,
		InResponseTo:  msg.MessageID,
	}
	if err := r.store.AppendMessage(ctx, record); err != nil {
		r.log.WarnContext(ctx, "Failed to persist bot reply", "error", err)
	}
}

func formatPlayer(p *ipldata.Player, language textutil.Language) string {
	if language == textutil.LanguageTelugu {
		return fmt.Sprintf(
			"%s గురించి సమాచారం ఇక్కడ ఉంది:\nజట్టు: %s\nపాత్ర: %s\nమ్యాచ్‌లు: %s\nపరుగులు: %s\nవికెట్లు: %s",
			p.Name, p.Team, p.Role, p.Matches, p.Runs, p.Wickets)
	}
	return fmt.Sprintf(
		"Here's information about %s:\nTeam: %s\nRole: %s\nMatches: %s\nRuns: %s\nWickets: %s",
		p.Name, p.Team, p.Role, p.Matches, p.Runs, p.Wickets)
}

func formatTeam(t *ipldata.Team, language textutil.Language) string {
	if language == textutil.LanguageTelugu {
		return fmt.Sprintf(
			"%s గురించి సమాచారం ఇక్కడ ఉంది:\nపూర్తి పేరు: %s\nహోమ్ గ్రౌండ్: %s\nకెప్టెన్: %s\nఛాంపియన్‌షిప్‌లు: %s",
			t.Name, t.FullName, t.HomeGround, t.Captain, t.Championships)
	}
	return fmt.Sprintf(
		"Here's information about %s:\nFull Name: %s\nHome Ground: %s\nCaptain: %s\nChampionships: %s",
		t.Name, t.FullName, t.HomeGround, t.Captain, t.Championships)
}

func formatMatch(m *ipldata.Match, language textutil.Language) string {
	if language == textutil.LanguageTelugu {
		return fmt.Sprintf(
			"%s vs %s గురించి సమాచారం ఇక్కడ ఉంది:\nతేదీ: %s\nవేదిక: %s\nఫలితం: %s",
			m.Team1, m.Team2, m.Date, m.Venue, m.Result)
	}
	return fmt.Sprintf(
		"Here's information about %s vs %s:\nDate: %s\nVenue: %s\nResult: %s",
		m.Team1, m.Team2, m.Date, m.Venue, m.Result)
}
