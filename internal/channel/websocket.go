// Package channel implements the transports that deliver controller
// requests onto the command bus: a local WebSocket server and a stdio
// line channel.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"drawbridge/internal/domain"
	"drawbridge/internal/metrics"

	"github.com/gorilla/websocket"
)

// WSConfig configures the WebSocket channel.
type WSConfig struct {
	Host   string // bind address (default: 127.0.0.1)
	Port   int    // 0 picks an ephemeral port
	Path   string // endpoint path (default: /channel)
	Logger *slog.Logger
}

// WebSocketChannel accepts controller connections and relays
// execute-command frames onto the bus. Responses come back over the bus
// and are written only to the client that sent the request.
type WebSocketChannel struct {
	host   string
	port   int
	path   string
	bus    domain.CommandBus
	logger *slog.Logger
	server *http.Server

	mu      sync.RWMutex
	clients map[string]*wsClient

	readyMu sync.Mutex
	addr    net.Addr
}

// wsClient serializes writes to one connection.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The channel binds to loopback; origin checks add nothing there.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewWebSocket(cfg WSConfig) *WebSocketChannel {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Path == "" {
		cfg.Path = "/channel"
	}
	return &WebSocketChannel{
		host:    cfg.Host,
		port:    cfg.Port,
		path:    cfg.Path,
		logger:  cfg.Logger,
		clients: make(map[string]*wsClient),
	}
}

func (ws *WebSocketChannel) Name() string { return "websocket" }

// Addr returns the bound listener address once Start has opened it.
func (ws *WebSocketChannel) Addr() net.Addr {
	ws.readyMu.Lock()
	defer ws.readyMu.Unlock()
	return ws.addr
}

// Start opens the listener and blocks until the context is cancelled.
func (ws *WebSocketChannel) Start(ctx context.Context, bus domain.CommandBus) error {
	ws.bus = bus

	bus.OnResponse(ws.Name(), ws.deliver)

	mux := http.NewServeMux()
	mux.HandleFunc(ws.path, ws.handleUpgrade)

	ws.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", ws.host, ws.port))
	if err != nil {
		return fmt.Errorf("listen %s:%d: %w", ws.host, ws.port, err)
	}
	ws.readyMu.Lock()
	ws.addr = ln.Addr()
	ws.readyMu.Unlock()

	ws.logger.Info("websocket channel listening", "addr", ln.Addr().String(), "path", ws.path)

	errCh := make(chan error, 1)
	go func() {
		if err := ws.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ws.closeAllClients()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ws.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (ws *WebSocketChannel) Stop() error {
	if ws.server == nil {
		return nil
	}
	ws.closeAllClients()
	return ws.server.Close()
}

func (ws *WebSocketChannel) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	clientID := fmt.Sprintf("ws-%d-%p", time.Now().UnixNano(), conn)
	client := &wsClient{conn: conn}

	ws.mu.Lock()
	ws.clients[clientID] = client
	ws.mu.Unlock()
	metrics.ActiveClients.Inc()

	ws.logger.Info("controller connected", "client_id", clientID, "remote", r.RemoteAddr)

	defer func() {
		ws.mu.Lock()
		delete(ws.clients, clientID)
		ws.mu.Unlock()
		metrics.ActiveClients.Dec()
		conn.Close()
		ws.logger.Info("controller disconnected", "client_id", clientID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.logger.Error("websocket read error", "client_id", clientID, "err", err)
			}
			return
		}

		var req domain.Request
		if err := json.Unmarshal(data, &req); err != nil {
			ws.logger.Warn("malformed frame dropped", "client_id", clientID, "err", err)
			client.send(domain.Response{
				Type:      domain.MsgCommandError,
				Error:     "malformed request: " + err.Error(),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			continue
		}

		req.Channel = ws.Name()
		req.ClientID = clientID
		ws.bus.Publish(req)
	}
}

// deliver routes a response back to the client that issued the request.
func (ws *WebSocketChannel) deliver(resp domain.Response) {
	ws.mu.RLock()
	client, ok := ws.clients[resp.ClientID]
	ws.mu.RUnlock()
	if !ok {
		ws.logger.Debug("response for gone client dropped", "client_id", resp.ClientID, "id", resp.ID)
		return
	}
	if err := client.send(resp); err != nil {
		ws.logger.Debug("websocket write failed", "client_id", resp.ClientID, "err", err)
	}
}

func (c *wsClient) send(resp domain.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (ws *WebSocketChannel) closeAllClients() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for id, client := range ws.clients {
		client.conn.Close()
		delete(ws.clients, id)
	}
}
