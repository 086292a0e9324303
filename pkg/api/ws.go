package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"

	"github.com/fleetlive/fleetlive/pkg/dashboard"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const streamWriteWait = 10 * time.Second
const streamSendBuffer = 32

// streamClient owns all writes to its connection. Broadcasts only enqueue
// onto send; the writer goroutine is the single writer gorilla requires.
type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// StreamHub pushes a freshly composed view model to every connected
// dashboard client whenever the engine recomposes. Broadcast runs on the
// engine loop goroutine so it must never block on a client: a client whose
// send buffer is full is disconnected instead.
type StreamHub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}

	loop *dashboard.Loop
}

func NewStreamHub(loop *dashboard.Loop) *StreamHub {
	return &StreamHub{
		clients: make(map[*streamClient]struct{}),
		loop:    loop,
	}
}

// SetupStream subscribes the hub to view model changes and serves the
// websocket endpoint on its own listener.
func (h *StreamHub) SetupStream(listen string) error {
	h.loop.Do(func(engine *dashboard.Engine) {
		engine.OnViewModel(h.Broadcast)
	})

	http.HandleFunc("/stream", h.handleWebSocket)

	log.Info().Str("listen", listen).Msg("Starting dashboard stream")
	return http.ListenAndServe(listen, nil)
}

func (h *StreamHub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan []byte, streamSendBuffer),
	}

	// Queue the current view model before registering the client, so a fresh
	// connection renders immediately and broadcasts can only land after it
	if payload, err := reduceViewModel(h.loop.ViewModel()); err == nil {
		client.send <- payload
	}

	h.add(client)
	go h.writePump(client)
	go h.readPump(client)
}

func (h *StreamHub) add(client *streamClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
}

// remove unregisters the client and closes its send channel exactly once,
// which in turn stops its writer.
func (h *StreamHub) remove(client *streamClient) {
	h.mu.Lock()
	if _, registered := h.clients[client]; registered {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// Broadcast enqueues the view model to every client without blocking. It is
// called from the engine loop goroutine; a stalled client cannot hold up
// event application.
func (h *StreamHub) Broadcast(viewModel dashboard.ViewModel) {
	payload, err := reduceViewModel(viewModel)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reduce view model for stream")
		return
	}

	h.mu.Lock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Client is not draining its buffer; drop it rather than fall
			// behind the live model
			delete(h.clients, client)
			close(client.send)
		}
	}
	h.mu.Unlock()
}

func (h *StreamHub) writePump(client *streamClient) {
	defer client.conn.Close()

	for payload := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(client)
			return
		}
	}

	// send closed: the hub dropped us, tell the client why
	client.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	client.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "stream backlog"))
}

func (h *StreamHub) readPump(client *streamClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			h.remove(client)
			return
		}
	}
}

func reduceViewModel(viewModel dashboard.ViewModel) ([]byte, error) {
	viewModelReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, viewModel)
	if err != nil {
		return nil, err
	}

	return json.Marshal(viewModelReduced)
}
