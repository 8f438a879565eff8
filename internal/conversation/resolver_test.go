package conversation_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/vamshik/iplbot/internal/conversation"
	"github.com/vamshik/iplbot/internal/ipldata"
	"github.com/vamshik/iplbot/internal/storage"
	"github.com/vamshik/iplbot/internal/textutil"
)

// scriptedAI plays back a fixed Chat outcome.
type scriptedAI struct {
	available bool
	reply     string
	err       error
	calls     int
}

func (a *scriptedAI) Available() bool { return a.available }

func (a *scriptedAI) Chat(_ context.Context, _ string, _ textutil.Language) (string, error) {
	a.calls++
	return a.reply, a.err
}

// recordingStore captures persisted replies and serves canned custom
// responses.
type recordingStore struct {
	mu       sync.Mutex
	custom   []storage.CustomResponse
	listErr  error
	appended []*storage.Message
}

func (s *recordingStore) AppendMessage(_ context.Context, m *storage.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, m)
	return nil
}

func (s *recordingStore) ListCustomResponses(_ context.Context) ([]storage.CustomResponse, error) {
	return s.custom, s.listErr
}

func (s *recordingStore) replies() []*storage.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Message, len(s.appended))
	copy(out, s.appended)
	return out
}

type resolverFixture struct {
	resolver *conversation.Resolver
	banks    *conversation.Banks
	learned  *conversation.LearnedStore
	store    *recordingStore
}

func newResolverFixture(t *testing.T, ai conversation.AIClient, randInt func(int) int) *resolverFixture {
	t.Helper()
	if randInt == nil {
		randInt = func(int) int { return 0 }
	}
	banks := conversation.NewBanks()
	learned := conversation.NewLearnedStore(learnedPath(t), testLogger())
	store := &recordingStore{}
	resolver := conversation.NewResolver(conversation.Config{
		AI:      ai,
		Learned: learned,
		Banks:   banks,
		Catalog: ipldata.NewCatalog(),
		Store:   store,
		Logger:  testLogger(),
		RandInt: randInt,
	})
	return &resolverFixture{resolver: resolver, banks: banks, learned: learned, store: store}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func TestResolveGreetingBank(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var n int
	fix := newResolverFixture(t, nil, func(max int) int {
		n++
		return n % max
	})
	bank := fix.banks.Phrases(conversation.BankGreeting, textutil.LanguageEnglish)

	for i := 0; i < 5; i++ {
		res := fix.resolver.Resolve(ctx, conversation.Incoming{UserID: 1, Text: "hello"}, textutil.LanguageEnglish)
		if res.Source != conversation.SourceBank {
			t.Fatalf("call %d: Source = %q, want bank", i, res.Source)
		}
		if !contains(bank, res.Reply) {
			t.Errorf("call %d: reply %q not drawn from the greeting bank", i, res.Reply)
		}
	}
}

func TestResolveScriptOverride(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "నమస్కారం"}, textutil.LanguageEnglish)

	if res.Language != textutil.LanguageTelugu {
		t.Errorf("Language = %q, want telugu despite english preference", res.Language)
	}
	bank := fix.banks.Phrases(conversation.BankGreeting, textutil.LanguageTelugu)
	if !contains(bank, res.Reply) {
		t.Errorf("reply %q not drawn from the telugu greeting bank", res.Reply)
	}
}

func TestResolveDefaultsToEnglish(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "hello"}, "")
	if res.Language != textutil.LanguageEnglish {
		t.Errorf("Language = %q, want english default", res.Language)
	}
}

func TestResolveAISuccessShortCircuits(t *testing.T) {
	t.Parallel()

	ai := &scriptedAI{available: true, reply: "Kohli has been in great form this season."}
	fix := newResolverFixture(t, ai, nil)
	fix.store.custom = []storage.CustomResponse{{Trigger: "hello", Response: "canned"}}

	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "hello"}, textutil.LanguageEnglish)

	if res.Source != conversation.SourceGemini {
		t.Fatalf("Source = %q, want gemini", res.Source)
	}
	if res.Reply != ai.reply {
		t.Errorf("Reply = %q, want the AI text verbatim", res.Reply)
	}
	if ai.calls != 1 {
		t.Errorf("AI called %d times, want exactly 1", ai.calls)
	}
}

func TestResolveAIFailureContinuesChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ai   *scriptedAI
	}{
		{name: "error", ai: &scriptedAI{available: true, err: errors.New("deadline exceeded")}},
		{name: "empty reply", ai: &scriptedAI{available: true, reply: "   "}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fix := newResolverFixture(t, tc.ai, nil)
			res := fix.resolver.Resolve(context.Background(),
				conversation.Incoming{UserID: 1, Text: "hello"}, textutil.LanguageEnglish)

			if res.Source != conversation.SourceBank {
				t.Errorf("Source = %q, want bank after soft AI failure", res.Source)
			}
			if tc.ai.calls != 1 {
				t.Errorf("AI called %d times, want exactly 1", tc.ai.calls)
			}
		})
	}
}

func TestResolveCustomBeforeLearned(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	fix.store.custom = []storage.CustomResponse{{Trigger: "magic", Response: "from the admins"}}
	if err := fix.learned.Learn("magic", "from the table", textutil.LanguageEnglish); err != nil {
		t.Fatalf("Learn failed: %v", err)
	}

	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "say the magic word"}, textutil.LanguageEnglish)

	if res.Source != conversation.SourceCustom {
		t.Fatalf("Source = %q, want custom", res.Source)
	}
	if res.Reply != "from the admins" {
		t.Errorf("Reply = %q, want the admin-curated response", res.Reply)
	}
}

func TestResolveLearnedBeforeBanks(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	if err := fix.learned.Learn("hello team", "Which team do you mean?", textutil.LanguageEnglish); err != nil {
		t.Fatalf("Learn failed: %v", err)
	}

	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "hello team"}, textutil.LanguageEnglish)

	if res.Source != conversation.SourceLearned {
		t.Fatalf("Source = %q, want learned even though a greeting keyword matches", res.Source)
	}
	if res.Reply != "Which team do you mean?" {
		t.Errorf("Reply = %q, want the learned response", res.Reply)
	}
}

func TestResolveCustomLookupFailureContinues(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	fix.store.listErr = errors.New("connection reset")

	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "hello"}, textutil.LanguageEnglish)
	if res.Source != conversation.SourceBank {
		t.Errorf("Source = %q, want bank after custom lookup failure", res.Source)
	}
}

func TestResolvePlayerData(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "virat kohli stats"}, textutil.LanguageEnglish)

	if res.Source != conversation.SourceData {
		t.Fatalf("Source = %q, want data", res.Source)
	}
	if !strings.Contains(res.Reply, "Virat Kohli") || !strings.Contains(res.Reply, "RCB") {
		t.Errorf("Reply = %q, want the player summary with the team name", res.Reply)
	}
}

func TestResolveTeamData(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "tell me about team csk"}, textutil.LanguageEnglish)

	if res.Source != conversation.SourceData {
		t.Fatalf("Source = %q, want data", res.Source)
	}
	if !strings.Contains(res.Reply, "Chennai Super Kings") {
		t.Errorf("Reply = %q, want the team summary", res.Reply)
	}
}

func TestResolveFallback(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	res := fix.resolver.Resolve(context.Background(),
		conversation.Incoming{UserID: 1, Text: "xyzzy plugh"}, textutil.LanguageEnglish)

	if res.Source != conversation.SourceFallback {
		t.Fatalf("Source = %q, want fallback", res.Source)
	}
	bank := fix.banks.Phrases(conversation.BankFallback, textutil.LanguageEnglish)
	if !contains(bank, res.Reply) {
		t.Errorf("reply %q not drawn from the fallback bank", res.Reply)
	}
}

func TestResolvePersistsReply(t *testing.T) {
	t.Parallel()

	fix := newResolverFixture(t, nil, nil)
	msg := conversation.Incoming{UserID: 7, MessageID: 1234, ChatID: -100, Text: "hello", IsGroup: true}
	res := fix.resolver.Resolve(context.Background(), msg, textutil.LanguageEnglish)

	replies := fix.store.replies()
	if len(replies) != 1 {
		t.Fatalf("persisted %d records, want 1", len(replies))
	}
	got := replies[0]
	if !got.IsBotResponse {
		t.Error("persisted record is not marked as a bot response")
	}
	if got.InResponseTo != msg.MessageID {
		t.Errorf("InResponseTo = %d, want %d", got.InResponseTo, msg.MessageID)
	}
	if got.UserID != msg.UserID || got.ChatID != msg.ChatID || !got.IsGroup {
		t.Errorf("persisted record = %+v, want the inbound chat coordinates", got)
	}
	if got.Text != res.Reply {
		t.Errorf("persisted text = %q, want the resolved reply %q", got.Text, res.Reply)
	}
}
