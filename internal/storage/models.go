package storage

import (
	"time"
)

// Collection names used by the bot.
const (
	CollectionUsers           = "users"
	CollectionMessages        = "messages"
	CollectionBlacklist       = "blacklist"
	CollectionCustomResponses = "custom_responses"
)

// User is a chat user record, created on first contact and refreshed on
// every interaction. Users are never deleted; access control goes
// through the blacklist overlay instead.
type User struct {
	UserID             int64
	Username           string
	FirstName          string
	LastName           string
	FirstSeen          time.Time
	LastActive         time.Time
	LanguagePreference string
}

// Message is one entry in the append-only message log: one record per
// inbound message and one per generated reply.
type Message struct {
	ID            string
	UserID        int64
	MessageID     int64
	Text          string
	Timestamp     time.Time
	ChatID        int64
	IsGroup       bool
	IsBotResponse bool
	InResponseTo  int64
}

// BlacklistEntry marks a user as blocked from interacting with the bot.
type BlacklistEntry struct {
	UserID        int64
	BlacklistedAt time.Time
	BlacklistedBy int64
}

// CustomResponse is an admin-curated trigger/reply pair stored in the
// main tier, upserted by trigger.
type CustomResponse struct {
	Trigger   string
	Response  string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy int64
}

// UsageStats aggregates counters for the admin stats report.
type UsageStats struct {
	TotalUsers     int64
	ActiveUsers24h int64
	TotalMessages  int64
	Messages24h    int64
	DataSizeBytes  int64
	Mode           Mode
}

func (u *User) toDoc() Doc {
	return Doc{
		"user_id":             u.UserID,
		"username":            u.Username,
		"first_name":          u.FirstName,
		"last_name":           u.LastName,
		"first_seen":          u.FirstSeen,
		"last_active":         u.LastActive,
		"language_preference": u.LanguagePreference,
	}
}

func userFromDoc(d Doc) *User {
	if d == nil {
		return nil
	}
	return &User{
		UserID:             asInt64(d["user_id"]),
		Username:           asString(d["username"]),
		FirstName:          asString(d["first_name"]),
		LastName:           asString(d["last_name"]),
		FirstSeen:          asTime(d["first_seen"]),
		LastActive:         asTime(d["last_active"]),
		LanguagePreference: asString(d["language_preference"]),
	}
}

func (m *Message) toDoc() Doc {
	return Doc{
		"user_id":         m.UserID,
		"message_id":      m.MessageID,
		"text":            m.Text,
		"timestamp":       m.Timestamp,
		"chat_id":         m.ChatID,
		"is_group":        m.IsGroup,
		"is_bot_response": m.IsBotResponse,
		"in_response_to":  m.InResponseTo,
	}
}

func messageFromDoc(d Doc) *Message {
	if d == nil {
		return nil
	}
	return &Message{
		ID:            asString(d["_id"]),
		UserID:        asInt64(d["user_id"]),
		MessageID:     asInt64(d["message_id"]),
		Text:          asString(d["text"]),
		Timestamp:     asTime(d["timestamp"]),
		ChatID:        asInt64(d["chat_id"]),
		IsGroup:       asBool(d["is_group"]),
		IsBotResponse: asBool(d["is_bot_response"]),
		InResponseTo:  asInt64(d["in_response_to"]),
	}
}

func (e *BlacklistEntry) toDoc() Doc {
	return Doc{
		"user_id":        e.UserID,
		"blacklisted_at": e.BlacklistedAt,
		"blacklisted_by": e.BlacklistedBy,
	}
}

func (r *CustomResponse) toDoc() Doc {
	return Doc{
		"trigger":    r.Trigger,
		"response":   r.Response,
		"created_at": r.CreatedAt,
		"updated_at": r.UpdatedAt,
		"created_by": r.CreatedBy,
	}
}

func customResponseFromDoc(d Doc) *CustomResponse {
	if d == nil {
		return nil
	}
	return &CustomResponse{
		Trigger:   asString(d["trigger"]),
		Response:  asString(d["response"]),
		CreatedAt: asTime(d["created_at"]),
		UpdatedAt: asTime(d["updated_at"]),
		CreatedBy: asInt64(d["created_by"]),
	}
}

// Remote drivers hand back loosely typed values; these helpers fold the
// numeric and temporal variants into the model field types.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	}
	return time.Time{}
}
