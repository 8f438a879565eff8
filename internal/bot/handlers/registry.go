package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its registration
// pattern and middleware chain.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available
// bot commands with their handlers and middleware.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	gate := []tgbot.Middleware{BlacklistGate(deps)}

	command := func(pattern string, h tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     h,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  append(gate, mw...),
		}
	}

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/help"] = command("help", NewHelpHandler(deps))
	handlers["/stats"] = command("stats", NewStatsHandler(deps))
	handlers["/player"] = command("player", NewPlayerHandler(deps))
	handlers["/team"] = command("team", NewTeamHandler(deps))
	handlers["/match"] = command("match", NewMatchHandler(deps))
	handlers["/telugu"] = command("telugu", NewLanguageHandler(deps, "telugu"))
	handlers["/english"] = command("english", NewLanguageHandler(deps, "english"))

	admin := []tgbot.Middleware{AdminOnly(deps)}
	handlers["/admin"] = command("admin", NewAdminHelpHandler(deps), admin...)
	handlers["/stats_admin"] = command("stats_admin", NewAdminStatsHandler(deps), admin...)
	handlers["/broadcast"] = command("broadcast", NewBroadcastHandler(deps), admin...)
	handlers["/blacklist"] = command("blacklist", NewBlacklistHandler(deps), admin...)
	handlers["/whitelist"] = command("whitelist", NewWhitelistHandler(deps), admin...)
	handlers["/db_status"] = command("db_status", NewDBStatusHandler(deps), admin...)
	handlers["/set_response"] = command("set_response", NewSetResponseHandler(deps), admin...)
	handlers["/learn_response"] = command("learn_response", NewLearnResponseHandler(deps), admin...)

	return handlers
}
