package handlers

import (
	"context"
	"strconv"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/vamshik/iplbot/internal/metrics"
)

// AdminOnly rejects updates from senders outside the configured admin
// list before the wrapped handler runs.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if !deps.Config.Telegram.IsAdmin(userID) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "admin_only")
				log.WarnContext(ctx, "Unauthorized admin command attempt", "user_id", userID, "chat_id", chatID)

				_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   "You don't have permission to use admin commands.",
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}

// blacklistCacheTTL bounds how stale a cached blacklist verdict can be.
const blacklistCacheTTL = 5 * time.Minute

// BlacklistGate drops updates from blacklisted users silently. Verdicts
// are cached for a short TTL so the storage tier is not hit on every
// message; a storage failure fails open.
func BlacklistGate(deps HandlerDeps) tgbot.Middleware {
	verdicts := cache.New(blacklistCacheTTL, 2*blacklistCacheTTL)
	log := deps.Logger.With("middleware", "blacklist_gate")

	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			key := strconv.FormatInt(userID, 10)

			if v, found := verdicts.Get(key); found {
				if v.(bool) {
					log.DebugContext(ctx, "Dropping message from blacklisted user", "user_id", userID)
					return
				}
				next(ctx, b, update)
				return
			}

			blocked, err := deps.Store.IsBlacklisted(ctx, userID)
			if err != nil {
				log.WarnContext(ctx, "Blacklist check failed, allowing message", "user_id", userID, "error", err)
				next(ctx, b, update)
				return
			}
			verdicts.Set(key, blocked, cache.DefaultExpiration)

			if blocked {
				log.DebugContext(ctx, "Dropping message from blacklisted user", "user_id", userID)
				return
			}
			next(ctx, b, update)
		}
	}
}

// userRateLimiter keeps one token bucket per user.
type userRateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (u *userRateLimiter) allow(userID int64) bool {
	u.mu.Lock()
	limiter, ok := u.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(u.limit, u.burst)
		u.limiters[userID] = limiter
	}
	u.mu.Unlock()
	return limiter.Allow()
}

// RateLimit bounds per-user message throughput. Rejected messages get a
// short notice; admins are exempt.
func RateLimit(deps HandlerDeps) tgbot.Middleware {
	limiter := &userRateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(float64(deps.Config.RateLimit.PerMinute) / 60.0),
		burst:    deps.Config.RateLimit.Burst,
	}
	log := deps.Logger.With("middleware", "rate_limit")

	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if deps.Config.Telegram.IsAdmin(userID) || limiter.allow(userID) {
				next(ctx, b, update)
				return
			}

			metrics.RateLimitRejections.Inc()
			log.WarnContext(ctx, "Rate limit exceeded", "user_id", userID)
			_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   "You're sending messages too quickly. Please slow down.",
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send rate limit notice", "error", err)
			}
		}
	}
}
