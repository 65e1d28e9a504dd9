package bots

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the Slack and Teams webhooks under /api/bots.
func RegisterRoutes(r chi.Router, slackHandler *SlackHandler, teamsHandler *TeamsHandler) {
	r.Route("/api/bots", func(r chi.Router) {
		r.Post("/slack/events", slackHandler.HandleEvent)
		r.Post("/teams/activity", teamsHandler.HandleActivity)
	})
}
