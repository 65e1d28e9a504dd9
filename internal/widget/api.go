package widget

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/academydays/hubby/internal/chat"
	"github.com/academydays/hubby/internal/lang"
	"github.com/academydays/hubby/internal/render"
)

// Frame types exchanged with the page.
const (
	FrameWelcome  = "welcome"
	FrameControls = "controls"
	FrameUser     = "user"
	FrameBot      = "bot"
	FrameTyping   = "typing"
	FrameError    = "error"
)

// frame is the outgoing message format, shared by the WebSocket and the
// REST fallback.
type frame struct {
	Type     string         `json:"type"`
	Message  *chat.Message  `json:"message,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Controls *chat.Controls `json:"controls,omitempty"`
	Origin   string         `json:"origin,omitempty"`
	On       *bool          `json:"on,omitempty"`
	Content  string         `json:"content,omitempty"`
}

// request is the incoming message format. Day, when set, selects the day
// before the message is answered.
type request struct {
	Type    string `json:"type"` // "text", "action", "day" or "lang"
	Content string `json:"content"`
	Day     string `json:"day,omitempty"`
}

type stateResponse struct {
	chat.Controls
	Day     string `json:"day"`
	Origin  string `json:"origin"`
	Welcome frame  `json:"welcome"`
}

type messageResponse struct {
	Messages []frame       `json:"messages"`
	Controls chat.Controls `json:"controls"`
}

func (wg *Widget) messageFrame(typ string, m chat.Message) frame {
	f := frame{Type: typ, Message: &m}
	if m.Bubble != nil {
		html, err := render.HTML(*m.Bubble)
		if err != nil {
			wg.logger.Warn("rendering bubble html", zap.Error(err))
		}
		f.HTML = html
	}
	return f
}

func (wg *Widget) stateOf(s *chat.Session, origin string) stateResponse {
	return stateResponse{
		Controls: s.Controls(),
		Day:      s.Day(),
		Origin:   origin,
		Welcome:  wg.messageFrame(FrameWelcome, s.Welcome()),
	}
}

func (wg *Widget) handleState(w http.ResponseWriter, r *http.Request) {
	s, res := wg.session(r.Context(), visitorID(w, r))
	if code := r.URL.Query().Get("lang"); lang.Valid(code) {
		if _, err := s.SwitchLanguage(code); err != nil {
			wg.logger.Error("saving language", zap.Error(err))
		}
	}
	if day := r.URL.Query().Get("day"); day != "" {
		s.SelectDay(day)
	}
	writeJSON(w, http.StatusOK, wg.stateOf(s, string(res.Origin)))
}

func (wg *Widget) handleLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lang string `json:"lang"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s, res := wg.session(r.Context(), visitorID(w, r))
	if _, err := s.SwitchLanguage(req.Lang); err != nil {
		wg.logger.Error("saving language", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, wg.stateOf(s, string(res.Origin)))
}

func (wg *Widget) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s, _ := wg.session(r.Context(), visitorID(w, r))
	if req.Day != "" {
		s.SelectDay(req.Day)
	}

	frames, err := wg.apply(s, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if frames == nil {
		frames = []frame{}
	}
	writeJSON(w, http.StatusOK, messageResponse{Messages: frames, Controls: s.Controls()})
}

// apply runs one request against the session and returns the frames to send,
// user frames first.
func (wg *Widget) apply(s *chat.Session, req request) ([]frame, error) {
	var msgs []chat.Message
	switch req.Type {
	case "text":
		msgs, _ = s.SendText(req.Content)
	case "action":
		var ok bool
		if msgs, ok = s.ClickAction(req.Content); !ok {
			return nil, errUnknownAction(req.Content)
		}
	case "day":
		s.SelectDay(req.Content)
		c := s.Controls()
		return []frame{{Type: FrameControls, Controls: &c}}, nil
	case "lang":
		if _, err := s.SwitchLanguage(req.Content); err != nil {
			wg.logger.Error("saving language", zap.Error(err))
		}
		c := s.Controls()
		return []frame{{Type: FrameControls, Controls: &c}}, nil
	default:
		return nil, errUnknownType(req.Type)
	}

	frames := make([]frame, 0, len(msgs))
	for _, m := range msgs {
		typ := FrameUser
		if m.Role == chat.RoleBot {
			typ = FrameBot
		}
		frames = append(frames, wg.messageFrame(typ, m))
	}
	return frames, nil
}

type errUnknownAction string

func (e errUnknownAction) Error() string { return "unknown action: " + string(e) }

type errUnknownType string

func (e errUnknownType) Error() string { return "unknown message type: " + string(e) }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
