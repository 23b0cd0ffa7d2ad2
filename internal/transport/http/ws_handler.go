package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"sheet-quiz/internal/app"
	"sheet-quiz/internal/domain"
)

const typeToggleTheme = "toggleTheme"

// EngineFactory builds a fresh engine for one connection.
type EngineFactory func() *app.Engine

// WSHandler serves the quiz to browser clients, one engine per connection.
type WSHandler struct {
	newEngine EngineFactory
	prefs     *app.Preferences
	catalog   domain.Catalog
	log       hclog.Logger
	upgrader  websocket.Upgrader
}

func NewWSHandler(newEngine EngineFactory, prefs *app.Preferences, catalog domain.Catalog, logger hclog.Logger) *WSHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &WSHandler{
		newEngine: newEngine,
		prefs:     prefs,
		catalog:   catalog,
		log:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes mounts the websocket endpoint next to the health and catalog endpoints.
func (h *WSHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/catalog", h.serveCatalog)
	mux.HandleFunc("/ws", h.ServeWS)
	return mux
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type themePayload struct {
	Theme domain.Theme `json:"theme"`
}

type catalogPayload struct {
	Subjects []domain.Subject `json:"subjects"`
}

func (h *WSHandler) serveCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(catalogPayload{Subjects: h.catalog.Subjects()}); err != nil {
		h.log.Warn("encode catalog", "error", err)
	}
}

// ServeWS upgrades the request and bridges engine events and player commands over the socket.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, stopEngine := context.WithCancel(context.Background())
	engine := h.newEngine()
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		_ = engine.Run(ctx)
	}()

	events, unsubscribe := engine.Subscribe()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "error", err)
				// unblocks ReadJSON so the handler can wind down
				conn.Close()
				return
			}
		}
	}()

	// theme goes out before the first navigation view
	send <- outboundMessage[any]{Type: "theme", Payload: themePayload{Theme: h.prefs.Theme(r.Context())}}

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(ev.Kind()), Payload: ev}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if reply, ok := h.handleInbound(r.Context(), engine, inbound); ok {
			if !enqueue(send, writerDone, reply) {
				break
			}
		}
	}

	close(closeSignals)
	<-eventsDone
	unsubscribe()
	stopEngine()
	<-engineDone
	close(send)
	<-writerDone
}

// handleInbound dispatches one client message. The returned message, if any, is sent back directly.
func (h *WSHandler) handleInbound(ctx context.Context, engine *app.Engine, inbound inboundMessage) (outboundMessage[any], bool) {
	if inbound.Type == typeToggleTheme {
		theme, err := h.prefs.ToggleTheme(ctx)
		if err != nil {
			h.log.Warn("toggle theme", "error", err)
			return errorMessage("could not save theme"), true
		}
		return outboundMessage[any]{Type: "theme", Payload: themePayload{Theme: theme}}, true
	}

	kind := app.CommandKind(inbound.Type)
	if !isCommand(kind) {
		return errorMessage("unsupported message type"), true
	}
	var cmd app.Command
	if len(inbound.Payload) > 0 {
		if err := json.Unmarshal(inbound.Payload, &cmd); err != nil {
			return errorMessage("invalid " + inbound.Type + " payload"), true
		}
	}
	cmd.Kind = kind
	if err := engine.Dispatch(cmd); err != nil {
		return errorMessage(err.Error()), true
	}
	return outboundMessage[any]{}, false
}

// enqueue hands msg to the writer. It reports false once the writer has stopped.
func enqueue(send chan<- outboundMessage[any], writerDone <-chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-writerDone:
		return false
	}
}

func isCommand(kind app.CommandKind) bool {
	switch kind {
	case app.CommandSelectSubject, app.CommandSelectTopic, app.CommandSelectOption,
		app.CommandBack, app.CommandRestart, app.CommandHome, app.CommandFilter:
		return true
	}
	return false
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
