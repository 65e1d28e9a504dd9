package bots

import (
	"github.com/academydays/hubby/internal/lang"
	"github.com/academydays/hubby/internal/render"
)

// Platform identifies the messaging platform.
type Platform string

const (
	PlatformSlack Platform = "slack"
	PlatformTeams Platform = "teams"
)

// IncomingMessage represents a message received from any platform.
type IncomingMessage struct {
	Platform  Platform
	ChannelID string
	UserID    string
	UserName  string
	Text      string
	ThreadID  string // for threaded replies
	Timestamp string
}

// OutgoingMessage is the answer to send back. Bubble, when set, is the
// structured answer the platform adapters lay out natively; Text is its
// plain-text rendering.
type OutgoingMessage struct {
	ChannelID string         `json:"channel"`
	Text      string         `json:"text"`
	ThreadID  string         `json:"thread_ts,omitempty"`
	Action    string         `json:"action,omitempty"`
	Day       string         `json:"day,omitempty"`
	Lang      lang.Language  `json:"lang,omitempty"`
	Bubble    *render.Bubble `json:"-"`
}

func (m *OutgoingMessage) reply(l lang.Language, b render.Bubble) {
	m.Lang = l
	m.Bubble = &b
	m.Text = b.Text()
}
