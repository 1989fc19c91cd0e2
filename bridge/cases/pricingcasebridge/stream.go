package pricingcasebridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/metrics"
	"github.com/kingjawir/marketplace/core/cases/pricingcase"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message types on the stream.
const (
	TypeConnected     = "connected"
	TypeStartAnalysis = "start-analysis"
	TypeProgress      = "progress"
	TypeComplete      = "complete"
	TypeError         = "error"
)

// inbound is a client message. Only start-analysis is understood.
type inbound struct {
	Type      string `json:"type"`
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	UserPrice *int64 `json:"userPrice"`
}

type outbound struct {
	Type     string `json:"type"`
	Message  string `json:"message,omitempty"`
	Stage    string `json:"stage,omitempty"`
	Progress int    `json:"progress,omitempty"`
	Data     any    `json:"data,omitempty"`
}

type stream struct {
	log      *logger.Logger
	cases    *pricingcase.Case
	upgrader websocket.Upgrader
}

func newStream(cfg Config) *stream {
	s := &stream{log: cfg.Log, cases: cfg.Case}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(cfg.AllowedOrigins) == 0 || origin == "" || slices.Contains(cfg.AllowedOrigins, origin)
		},
	}
	return s
}

// session is one open socket. Writes come from the read loop, the pinger
// and running analyses, so they share a lock.
type session struct {
	id   string
	conn *websocket.Conn
	log  *logger.Logger

	mu sync.Mutex
}

func (s *session) send(msg outbound) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *session) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (s *session) fail(msg string) {
	if err := s.send(outbound{Type: TypeError, Message: msg}); err != nil {
		s.log.Debug("stream send", "session_id", s.id, "error", err)
	}
}

func (st *stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := st.upgrader.Upgrade(w, r, nil)
	if err != nil {
		st.log.WarnContext(r.Context(), "stream upgrade", "error", err)
		return
	}
	defer conn.Close()

	sess := &session{id: uuid.NewString(), conn: conn, log: st.log}
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		st.log.Info("price analysis stream closed", "session_id", sess.id)
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		st.keepAlive(ctx, sess)
	}()

	st.log.Info("price analysis stream opened", "session_id", sess.id)
	if err := sess.send(outbound{Type: TypeConnected, Message: "WebSocket connected successfully"}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				st.log.Warn("price analysis stream read", "session_id", sess.id, "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.fail("Invalid message format")
			continue
		}
		if msg.Type != TypeStartAnalysis {
			sess.fail(`Unknown message type. Expected "start-analysis"`)
			continue
		}
		if strings.TrimSpace(msg.Query) == "" {
			sess.fail("Query field is required and must be a non-empty string")
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			st.run(ctx, sess, msg)
		}()
	}
}

func (st *stream) keepAlive(ctx context.Context, sess *session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sess.ping(); err != nil {
				return
			}
		}
	}
}

func (st *stream) run(ctx context.Context, sess *session, msg inbound) {
	req := pricingcase.Request{
		Query:     msg.Query,
		Limit:     msg.Limit,
		UserPrice: positiveOrNil(msg.UserPrice),
	}
	result, err := st.cases.Analyze(ctx, req, func(p pricingcase.Progress) {
		_ = sess.send(outbound{Type: TypeProgress, Stage: p.Stage, Message: p.Message, Progress: p.Progress})
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		st.log.ErrorContext(ctx, "price analysis stream", "session_id", sess.id, "error", err)
		sess.fail(streamMessage(err))
		return
	}
	metrics.AddAnalyses()
	_ = sess.send(outbound{Type: TypeComplete, Data: result})
}

func streamMessage(err error) string {
	if e := pricingError(err); e.Code != errs.InternalOnlyLog {
		return e.Message
	}
	return "Analysis failed"
}
