// Package storage implements the bot's persistence tier: a
// key-collection document store with three backing modes (primary
// remote, backup remote, in-memory simulation) behind one client.
//
// Mode selection happens at connect time and, one-directionally, at
// runtime: primary degrades to backup when the quota policy fires, and
// backup degrades to memory if it fails. There is no automatic return
// to an earlier mode within a process lifetime, and committed records
// never migrate between modes.
package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vamshik/iplbot/internal/metrics"
)

// Mode identifies the live backing store.
type Mode int

const (
	ModeMemory Mode = iota
	ModePrimary
	ModeBackup
)

func (m Mode) String() string {
	switch m {
	case ModePrimary:
		return "primary"
	case ModeBackup:
		return "backup"
	default:
		return "memory"
	}
}

// Config carries the connection settings for the storage tier.
type Config struct {
	PrimaryURI       string
	BackupURI        string
	Database         string
	ProbeTimeout     time.Duration
	OperationTimeout time.Duration
	Quota            QuotaPolicy
	Dialer           Dialer
}

// Client is the storage tier facade. All remote errors are caught here:
// operations log the failure and return an error value to the caller,
// which treats "no data" (nil result, nil error) and "operation failed"
// (non-nil error) as distinct outcomes. Nothing panics and nothing is
// retried automatically.
type Client struct {
	mu           sync.Mutex
	mode         Mode
	backend      Backend
	backupURI    string
	database     string
	dialer       Dialer
	quota        QuotaPolicy
	probeTimeout time.Duration
	opTimeout    time.Duration
	failedOver   bool
	logger       *slog.Logger
}

// Connect resolves the initial storage mode: memory when no primary URI
// is configured, otherwise the first of primary and backup that answers
// the liveness probe, with memory as the final fallback. Connect never
// fails; the worst case is an empty in-memory tier.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "storage")

	if cfg.Database == "" {
		cfg.Database = "ipl_bot_db"
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 10 * time.Second
	}
	if cfg.Quota == nil {
		cfg.Quota = ThresholdPolicy{ThresholdBytes: DefaultQuotaBytes}
	}
	if cfg.Dialer == nil {
		cfg.Dialer = MongoDialer(cfg.ProbeTimeout)
	}

	c := &Client{
		backupURI:    normalizeURI(cfg.BackupURI, log),
		database:     cfg.Database,
		dialer:       cfg.Dialer,
		quota:        cfg.Quota,
		probeTimeout: cfg.ProbeTimeout,
		opTimeout:    cfg.OperationTimeout,
		logger:       log,
	}

	primaryURI := normalizeURI(cfg.PrimaryURI, log)
	if primaryURI == "" {
		log.Warn("No primary store URI configured, using in-memory mode")
		c.setBackend(NewMemoryBackend(), ModeMemory)
		return c
	}

	log.Info("Connecting to primary store")
	if backend, err := c.dial(ctx, primaryURI, cfg.ProbeTimeout); err == nil {
		log.Info("Connected to primary store")
		c.setBackend(backend, ModePrimary)
		return c
	} else {
		log.Error("Failed to connect to primary store", "error", err)
	}

	if c.backupURI != "" {
		log.Info("Connecting to backup store")
		if backend, err := c.dial(ctx, c.backupURI, cfg.ProbeTimeout); err == nil {
			log.Info("Connected to backup store")
			c.setBackend(backend, ModeBackup)
			return c
		} else {
			log.Error("Failed to connect to backup store", "error", err)
		}
	} else {
		log.Warn("No backup store URI configured")
	}

	log.Warn("No remote store reachable, using in-memory mode")
	c.setBackend(NewMemoryBackend(), ModeMemory)
	return c
}

func (c *Client) dial(ctx context.Context, uri string, timeout time.Duration) (Backend, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.dialer(dialCtx, uri, c.database)
}

func (c *Client) setBackend(b Backend, m Mode) {
	c.backend = b
	c.mode = m
	metrics.SetStorageMode(m.String())
}

// Mode returns the currently live storage mode.
func (c *Client) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Close releases the live backend.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Close(ctx)
}

// live snapshots the current backend and mode without holding the lock
// during the operation itself.
func (c *Client) live() (Backend, Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend, c.mode
}

func (c *Client) collection(name string) (Collection, Mode) {
	b, m := c.live()
	return b.Collection(name), m
}

// opCtx bounds one storage operation. Callers usually pass the update
// context, which carries no deadline of its own.
func (c *Client) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

// observeError handles a failed remote operation. Backup failures
// degrade the tier to memory mode permanently for this process;
// primary failures are logged and surfaced so the caller can decide.
func (c *Client) observeError(ctx context.Context, mode Mode, op string, err error) {
	c.logger.ErrorContext(ctx, "Storage operation failed", "op", op, "mode", mode.String(), "error", err)
	if mode != ModeBackup {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeBackup {
		return
	}
	c.logger.WarnContext(ctx, "Backup store failed, degrading to in-memory mode")
	old := c.backend
	c.setBackend(NewMemoryBackend(), ModeMemory)
	metrics.StorageFailovers.Inc()
	go func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = old.Close(closeCtx)
	}()
}

// EvaluateQuota runs the size-check probe and switches the tier to the
// backup target when the quota policy fires. The switch happens at most
// once per process and only away from primary. Safe to call from any
// goroutine; also invoked after every message write.
func (c *Client) EvaluateQuota(ctx context.Context) {
	backend, mode := c.live()
	if mode != ModePrimary || c.backupURI == "" {
		return
	}

	size, err := backend.DataSize(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Size probe failed", "error", err)
		return
	}
	metrics.StorageDataSize.Set(float64(size))

	if !c.quota.ShouldFailover(size) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModePrimary || c.failedOver {
		return
	}
	c.logger.WarnContext(ctx, "Primary store quota reached, switching to backup", "size_bytes", size)

	backupBackend, err := c.dial(ctx, c.backupURI, c.probeTimeout)
	old := c.backend
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to connect to backup store, degrading to in-memory mode", "error", err)
		c.setBackend(NewMemoryBackend(), ModeMemory)
	} else {
		c.logger.Info("Connected to backup store")
		c.setBackend(backupBackend, ModeBackup)
	}
	c.failedOver = true
	metrics.StorageFailovers.Inc()
	go func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = old.Close(closeCtx)
	}()
}

// UpsertUser creates the user on first contact and refreshes the
// mutable fields on every later one. first_seen is preserved, and the
// stored language preference survives unless the update carries one.
func (c *Client) UpsertUser(ctx context.Context, u *User) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionUsers)
	now := time.Now().UTC()
	if u.LastActive.IsZero() {
		u.LastActive = now
	}

	existing, err := coll.FindOne(ctx, Where("user_id", Eq, u.UserID))
	if err != nil {
		c.observeError(ctx, mode, "upsert_user", err)
		return err
	}

	if existing == nil {
		if u.FirstSeen.IsZero() {
			u.FirstSeen = now
		}
		if _, err := coll.InsertOne(ctx, u.toDoc()); err != nil {
			c.observeError(ctx, mode, "upsert_user", err)
			return err
		}
		c.logger.DebugContext(ctx, "User created", "user_id", u.UserID)
		return nil
	}

	set := Doc{
		"last_active": u.LastActive,
	}
	if u.Username != "" {
		set["username"] = u.Username
	}
	if u.FirstName != "" {
		set["first_name"] = u.FirstName
	}
	if u.LastName != "" {
		set["last_name"] = u.LastName
	}
	if u.LanguagePreference != "" {
		set["language_preference"] = u.LanguagePreference
	}
	if _, err := coll.UpdateOne(ctx, Where("user_id", Eq, u.UserID), set); err != nil {
		c.observeError(ctx, mode, "upsert_user", err)
		return err
	}
	return nil
}

// GetUser returns the stored user, or nil with no error when unknown.
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionUsers)
	doc, err := coll.FindOne(ctx, Where("user_id", Eq, userID))
	if err != nil {
		c.observeError(ctx, mode, "get_user", err)
		return nil, err
	}
	return userFromDoc(doc), nil
}

// SetLanguagePreference updates the user's reply language, creating a
// minimal user record if none exists yet.
func (c *Client) SetLanguagePreference(ctx context.Context, userID int64, language string) error {
	return c.UpsertUser(ctx, &User{UserID: userID, LanguagePreference: language})
}

// AppendMessage appends to the message log and triggers the size-check
// probe. The message's synthetic id is filled in on success.
func (c *Client) AppendMessage(ctx context.Context, m *Message) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionMessages)
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	id, err := coll.InsertOne(ctx, m.toDoc())
	if err != nil {
		c.observeError(ctx, mode, "append_message", err)
		return err
	}
	m.ID = id

	c.EvaluateQuota(ctx)
	return nil
}

// GetUserMessages returns up to limit messages for the user, newest
// first.
func (c *Client) GetUserMessages(ctx context.Context, userID int64, limit int64) ([]*Message, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionMessages)
	if limit <= 0 {
		limit = 50
	}

	docs, err := coll.Find(ctx, Where("user_id", Eq, userID), &FindOptions{
		SortField: "timestamp",
		SortDesc:  true,
		Limit:     limit,
	})
	if err != nil {
		c.observeError(ctx, mode, "get_user_messages", err)
		return nil, err
	}

	out := make([]*Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, messageFromDoc(d))
	}
	return out, nil
}

// IsBlacklisted reports whether the user is blocked.
func (c *Client) IsBlacklisted(ctx context.Context, userID int64) (bool, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionBlacklist)
	doc, err := coll.FindOne(ctx, Where("user_id", Eq, userID))
	if err != nil {
		c.observeError(ctx, mode, "is_blacklisted", err)
		return false, err
	}
	return doc != nil, nil
}

// AddToBlacklist blocks a user. Reports false if the user was already
// blocked.
func (c *Client) AddToBlacklist(ctx context.Context, userID, by int64) (bool, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionBlacklist)
	existing, err := coll.FindOne(ctx, Where("user_id", Eq, userID))
	if err != nil {
		c.observeError(ctx, mode, "add_to_blacklist", err)
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	entry := &BlacklistEntry{UserID: userID, BlacklistedAt: time.Now().UTC(), BlacklistedBy: by}
	if _, err := coll.InsertOne(ctx, entry.toDoc()); err != nil {
		c.observeError(ctx, mode, "add_to_blacklist", err)
		return false, err
	}
	return true, nil
}

// RemoveFromBlacklist unblocks a user. Reports false if the user was
// not blocked.
func (c *Client) RemoveFromBlacklist(ctx context.Context, userID int64) (bool, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionBlacklist)
	removed, err := coll.DeleteOne(ctx, Where("user_id", Eq, userID))
	if err != nil {
		c.observeError(ctx, mode, "remove_from_blacklist", err)
		return false, err
	}
	return removed, nil
}

// UpsertCustomResponse stores an admin-curated trigger/reply pair,
// keyed by trigger. Reports whether a new pair was created.
func (c *Client) UpsertCustomResponse(ctx context.Context, trigger, response string, by int64) (bool, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionCustomResponses)
	now := time.Now().UTC()

	existing, err := coll.FindOne(ctx, Where("trigger", Eq, trigger))
	if err != nil {
		c.observeError(ctx, mode, "upsert_custom_response", err)
		return false, err
	}

	if existing != nil {
		_, err := coll.UpdateOne(ctx, Where("trigger", Eq, trigger), Doc{
			"response":   response,
			"updated_at": now,
		})
		if err != nil {
			c.observeError(ctx, mode, "upsert_custom_response", err)
			return false, err
		}
		return false, nil
	}

	r := &CustomResponse{Trigger: trigger, Response: response, CreatedAt: now, UpdatedAt: now, CreatedBy: by}
	if _, err := coll.InsertOne(ctx, r.toDoc()); err != nil {
		c.observeError(ctx, mode, "upsert_custom_response", err)
		return false, err
	}
	return true, nil
}

// ListCustomResponses returns all custom responses in insertion order.
func (c *Client) ListCustomResponses(ctx context.Context) ([]CustomResponse, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionCustomResponses)
	docs, err := coll.Find(ctx, Filter{}, &FindOptions{SortField: "created_at"})
	if err != nil {
		c.observeError(ctx, mode, "list_custom_responses", err)
		return nil, err
	}

	out := make([]CustomResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, *customResponseFromDoc(d))
	}
	return out, nil
}

// ListUserIDs returns the ids of every known user.
func (c *Client) ListUserIDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	coll, mode := c.collection(CollectionUsers)
	docs, err := coll.Find(ctx, Filter{}, nil)
	if err != nil {
		c.observeError(ctx, mode, "list_user_ids", err)
		return nil, err
	}

	out := make([]int64, 0, len(docs))
	for _, d := range docs {
		out = append(out, asInt64(d["user_id"]))
	}
	return out, nil
}

// UsageStats aggregates the counters for the admin stats report.
func (c *Client) UsageStats(ctx context.Context) (*UsageStats, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	backend, mode := c.live()
	users := backend.Collection(CollectionUsers)
	messages := backend.Collection(CollectionMessages)
	yesterday := time.Now().UTC().Add(-24 * time.Hour)

	stats := &UsageStats{Mode: mode}
	var err error

	if stats.TotalUsers, err = users.CountDocuments(ctx, Filter{}); err != nil {
		c.observeError(ctx, mode, "usage_stats", err)
		return nil, err
	}
	if stats.ActiveUsers24h, err = users.CountDocuments(ctx, Where("last_active", Gte, yesterday)); err != nil {
		c.observeError(ctx, mode, "usage_stats", err)
		return nil, err
	}
	if stats.TotalMessages, err = messages.CountDocuments(ctx, Filter{}); err != nil {
		c.observeError(ctx, mode, "usage_stats", err)
		return nil, err
	}
	if stats.Messages24h, err = messages.CountDocuments(ctx, Where("timestamp", Gte, yesterday)); err != nil {
		c.observeError(ctx, mode, "usage_stats", err)
		return nil, err
	}

	if size, err := backend.DataSize(ctx); err == nil {
		stats.DataSizeBytes = size
	} else {
		c.logger.WarnContext(ctx, "Size probe failed during stats", "error", err)
	}

	return stats, nil
}

// normalizeURI validates a connection string the way the original
// deployment did: empty stays empty, and a URI without a scheme gets
// the default one prepended.
func normalizeURI(uri string, log *slog.Logger) string {
	if uri == "" {
		return ""
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		log.Warn("Store URI missing scheme, adding mongodb:// prefix")
		return "mongodb://" + uri
	}
	return uri
}
