package bots

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// TeamsHandler answers Bot Framework activities from Microsoft Teams.
type TeamsHandler struct {
	gateway *Gateway
}

func NewTeamsHandler(gateway *Gateway) *TeamsHandler {
	return &TeamsHandler{gateway: gateway}
}

type teamsActivity struct {
	Type         string            `json:"type"`
	ID           string            `json:"id"`
	Timestamp    string            `json:"timestamp"`
	Text         string            `json:"text"`
	From         teamsAccount      `json:"from"`
	Recipient    teamsAccount      `json:"recipient"`
	Conversation teamsConversation `json:"conversation"`
	ReplyToID    string            `json:"replyToId"`
	MembersAdded []teamsAccount    `json:"membersAdded"`
}

type teamsAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type teamsConversation struct {
	ID string `json:"id"`
}

// teamsReply is the message activity returned in the webhook response. The
// answered action and day travel in channelData.
type teamsReply struct {
	Type         string            `json:"type"`
	Text         string            `json:"text"`
	TextFormat   string            `json:"textFormat"`
	ReplyToID    string            `json:"replyToId,omitempty"`
	From         teamsAccount      `json:"from"`
	Recipient    teamsAccount      `json:"recipient"`
	Conversation teamsConversation `json:"conversation"`
	Locale       string            `json:"locale,omitempty"`
	ChannelData  map[string]string `json:"channelData,omitempty"`
}

// HandleActivity answers message activities, and greets the conversation
// when the bot itself is added to it. Other activities are acknowledged.
func (h *TeamsHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var activity teamsActivity
	if err := json.Unmarshal(body, &activity); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	msg := IncomingMessage{
		Platform:  PlatformTeams,
		ChannelID: activity.Conversation.ID,
		UserID:    activity.From.ID,
		UserName:  activity.From.Name,
		ThreadID:  activity.ReplyToID,
		Timestamp: activity.Timestamp,
	}
	switch {
	case activity.Type == "message":
		msg.Text = activity.Text
	case activity.Type == "conversationUpdate" && activity.botAdded():
		// An empty message is answered with the welcome.
	default:
		w.WriteHeader(http.StatusOK)
		return
	}

	resp, err := h.gateway.Process(r.Context(), msg)
	if err != nil {
		http.Error(w, "processing error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, formatTeamsMessage(activity, resp))
}

func (a teamsActivity) botAdded() bool {
	for _, m := range a.MembersAdded {
		if m.ID != "" && m.ID == a.Recipient.ID {
			return true
		}
	}
	return false
}

func formatTeamsMessage(activity teamsActivity, msg *OutgoingMessage) *teamsReply {
	reply := &teamsReply{
		Type:         "message",
		Text:         teamsMarkdown(msg),
		TextFormat:   "markdown",
		ReplyToID:    activity.ID,
		From:         activity.Recipient,
		Recipient:    activity.From,
		Conversation: activity.Conversation,
		Locale:       string(msg.Lang),
	}
	if msg.Action != "" {
		reply.ChannelData = map[string]string{"action": msg.Action, "day": msg.Day}
	}
	return reply
}

// teamsMarkdown lays the bubble out as a paragraph, a bulleted list and a
// link. Without a bubble the plain text is split into paragraphs.
func teamsMarkdown(msg *OutgoingMessage) string {
	b := msg.Bubble
	if b == nil {
		return strings.ReplaceAll(teamsEscape(msg.Text), "\n", "\n\n")
	}

	var parts []string
	if b.Message != "" {
		parts = append(parts, teamsEscape(b.Message))
	}
	if len(b.Details) > 0 {
		lines := make([]string, len(b.Details))
		for i, d := range b.Details {
			lines[i] = "- " + teamsEscape(d)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if b.Link != nil {
		parts = append(parts, "["+teamsEscape(b.Link.Label)+"]("+b.Link.URL+")")
	}
	return strings.Join(parts, "\n\n")
}

var teamsEscape = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`", "#", `\#`, "<", "&lt;", ">", "&gt;",
).Replace
