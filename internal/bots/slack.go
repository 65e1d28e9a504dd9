package bots

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/academydays/hubby/internal/render"
)

// SlackHandler answers Slack Events API callbacks with Block Kit replies.
type SlackHandler struct {
	gateway       *Gateway
	signingSecret string
}

func NewSlackHandler(gateway *Gateway, signingSecret string) *SlackHandler {
	return &SlackHandler{
		gateway:       gateway,
		signingSecret: signingSecret,
	}
}

type slackEvent struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	Event     slackInnerEvent `json:"event"`
}

type slackInnerEvent struct {
	Type        string `json:"type"`
	Subtype     string `json:"subtype"`
	ChannelType string `json:"channel_type"`
	User        string `json:"user"`
	Text        string `json:"text"`
	Channel     string `json:"channel"`
	TS          string `json:"ts"`
	ThreadTS    string `json:"thread_ts"`
	BotID       string `json:"bot_id"`
}

// answerable reports whether the assistant should reply: every mention, and
// plain messages only in direct conversations. Channel messages that name
// the bot also arrive as app_mention, so answering them here would reply
// twice. Edits, joins and other subtypes are ignored, as are bots.
func (e slackInnerEvent) answerable() bool {
	if e.BotID != "" || e.Subtype != "" {
		return false
	}
	switch e.Type {
	case "app_mention":
		return true
	case "message":
		return e.ChannelType == "im"
	}
	return false
}

// HandleEvent handles incoming Slack events (HTTP POST).
func (h *SlackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.signingSecret != "" && !h.verifySignature(r, body) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event slackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "url_verification":
		writeJSON(w, map[string]string{"challenge": event.Challenge})

	case "event_callback":
		// Slack redelivers when the first answer was slow; it was already answered.
		if r.Header.Get("X-Slack-Retry-Num") != "" || !event.Event.answerable() {
			w.WriteHeader(http.StatusOK)
			return
		}

		thread := event.Event.ThreadTS
		if thread == "" {
			thread = event.Event.TS
		}
		resp, err := h.gateway.Process(r.Context(), IncomingMessage{
			Platform:  PlatformSlack,
			ChannelID: event.Event.Channel,
			UserID:    event.Event.User,
			Text:      event.Event.Text,
			ThreadID:  thread,
			Timestamp: event.Event.TS,
		})
		if err != nil {
			http.Error(w, "processing error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, formatSlackMessage(resp))

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// verifySignature checks the v0 HMAC-SHA256 signature over the raw body.
func (h *SlackHandler) verifySignature(r *http.Request, body []byte) bool {
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")
	if timestamp == "" || signature == "" || !verifyTimestamp(timestamp, time.Now()) {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// verifyTimestamp rejects requests more than five minutes away from now.
func verifyTimestamp(timestamp string, now time.Time) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	return now.Sub(time.Unix(ts, 0)).Abs() <= 5*time.Minute
}

type slackReply struct {
	Channel  string        `json:"channel"`
	Text     string        `json:"text"`
	ThreadTS string        `json:"thread_ts,omitempty"`
	Blocks   []slackBlock  `json:"blocks,omitempty"`
	Metadata *slackMetadata `json:"metadata,omitempty"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type     string     `json:"type"`
	Text     *slackText `json:"text,omitempty"`
	URL      string     `json:"url,omitempty"`
	ActionID string     `json:"action_id,omitempty"`
}

// slackMetadata tags the reply with the answered action and day so later
// events on the message can be traced back to it.
type slackMetadata struct {
	EventType    string            `json:"event_type"`
	EventPayload map[string]string `json:"event_payload"`
}

// formatSlackMessage lays the answer out as Block Kit: the message, the
// detail lines as a bulleted section and the link as a button. Text stays
// as the notification fallback.
func formatSlackMessage(msg *OutgoingMessage) *slackReply {
	reply := &slackReply{
		Channel:  msg.ChannelID,
		Text:     msg.Text,
		ThreadTS: msg.ThreadID,
	}
	if msg.Action != "" {
		reply.Metadata = &slackMetadata{
			EventType:    "hubby_answer",
			EventPayload: map[string]string{"action": msg.Action, "day": msg.Day, "lang": string(msg.Lang)},
		}
	}

	b := msg.Bubble
	if b == nil {
		b = &render.Bubble{Message: msg.Text}
	}
	if b.Message != "" {
		reply.Blocks = append(reply.Blocks, mrkdwnSection(slackEscape(b.Message)))
	}
	if len(b.Details) > 0 {
		lines := make([]string, len(b.Details))
		for i, d := range b.Details {
			lines[i] = "• " + slackEscape(d)
		}
		reply.Blocks = append(reply.Blocks, mrkdwnSection(strings.Join(lines, "\n")))
	}
	if b.Link != nil {
		reply.Blocks = append(reply.Blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{{
				Type:     "button",
				Text:     &slackText{Type: "plain_text", Text: b.Link.Label},
				URL:      b.Link.URL,
				ActionID: "open_link",
			}},
		})
	}
	return reply
}

func mrkdwnSection(text string) slackBlock {
	return slackBlock{Type: "section", Text: &slackText{Type: "mrkdwn", Text: text}}
}

// slackEscape escapes the three characters Slack treats as control
// sequences in mrkdwn.
var slackEscape = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
