package widget

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/academydays/hubby/internal/chat"
)

func (wg *Widget) upgrader() *websocket.Upgrader {
	u := &websocket.Upgrader{}
	if wg.cfg.Server.AllowAllOrigins {
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return u
}

// conn serializes writes from the read loop and the pacer's timers.
type conn struct {
	ws     *websocket.Conn
	mu     sync.Mutex
	logger *zap.Logger
}

func (c *conn) send(f frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(f); err != nil {
		c.logger.Debug("websocket write", zap.Error(err))
	}
}

func (wg *Widget) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	header := http.Header{}
	visitor := visitorID(&headerRecorder{h: header}, r)

	ws, err := wg.upgrader().Upgrade(w, r, header)
	if err != nil {
		wg.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer ws.Close()

	c := &conn{ws: ws, logger: wg.logger}

	s, res := wg.session(r.Context(), visitor)

	pacer := chat.NewPacer(wg.cfg.TypingDelay(), chat.PacerHooks{
		Typing: func(on bool) {
			c.send(frame{Type: FrameTyping, On: &on})
		},
		Deliver: func(m chat.Message) {
			c.send(wg.messageFrame(FrameBot, m))
		},
	})
	defer pacer.Close()

	welcome := wg.messageFrame(FrameWelcome, s.Welcome())
	welcome.Origin = string(res.Origin)
	c.send(welcome)
	controls := s.Controls()
	c.send(frame{Type: FrameControls, Controls: &controls})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wg.logger.Debug("websocket read", zap.Error(err))
			}
			return
		}

		var req request
		if err := json.Unmarshal(data, &req); err != nil {
			c.send(frame{Type: FrameError, Content: "invalid message format"})
			continue
		}

		frames, err := wg.apply(s, req)
		if err != nil {
			c.send(frame{Type: FrameError, Content: err.Error()})
			continue
		}
		for _, f := range frames {
			if f.Type == FrameBot {
				pacer.Schedule(*f.Message)
				continue
			}
			c.send(f)
		}
	}
}

// headerRecorder captures Set-Cookie headers so they can ride on the
// upgrade response.
type headerRecorder struct {
	h http.Header
}

func (h *headerRecorder) Header() http.Header       { return h.h }
func (h *headerRecorder) Write([]byte) (int, error) { return 0, nil }
func (h *headerRecorder) WriteHeader(int)           {}
