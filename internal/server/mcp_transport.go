package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	transport "github.com/metoro-io/mcp-golang/transport"

	logger "github.com/paintmcp/paintd/internal/logger"
)

// HandlerTransport is a server-side MCP transport mounted on an existing HTTP
// mux instead of owning its own listener. Each POST carries one JSON-RPC
// message; the connection is held until the protocol layer sends the matching
// response back through Send.
type HandlerTransport struct {
	mu             sync.RWMutex
	messageHandler func(ctx context.Context, message *transport.BaseJsonRpcMessage)
	errorHandler   func(error)
	closeHandler   func()

	pendingMu sync.Mutex
	pending   map[transport.RequestId]chan *transport.BaseJsonRpcMessage
}

// NewHandlerTransport creates an unmounted transport
func NewHandlerTransport() *HandlerTransport {
	return &HandlerTransport{
		pending: make(map[transport.RequestId]chan *transport.BaseJsonRpcMessage),
	}
}

// Start implements Transport.Start. The embedding server owns the listener,
// so there is nothing to start.
func (t *HandlerTransport) Start(ctx context.Context) error {
	return nil
}

// Send implements Transport.Send by routing a response to the HTTP request
// waiting on its id.
func (t *HandlerTransport) Send(ctx context.Context, message *transport.BaseJsonRpcMessage) error {
	var id transport.RequestId
	switch {
	case message.JsonRpcResponse != nil:
		id = message.JsonRpcResponse.Id
	case message.JsonRpcError != nil:
		id = message.JsonRpcError.Id
	default:
		// notifications have no waiting request
		return nil
	}

	t.pendingMu.Lock()
	ch, ok := t.pending[id]
	delete(t.pending, id)
	t.pendingMu.Unlock()

	if !ok {
		return fmt.Errorf("no pending request with id %v", id)
	}
	ch <- message
	return nil
}

// Close implements Transport.Close
func (t *HandlerTransport) Close() error {
	t.mu.RLock()
	handler := t.closeHandler
	t.mu.RUnlock()

	if handler != nil {
		handler()
	}
	return nil
}

// SetCloseHandler implements Transport.SetCloseHandler
func (t *HandlerTransport) SetCloseHandler(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeHandler = handler
}

// SetErrorHandler implements Transport.SetErrorHandler
func (t *HandlerTransport) SetErrorHandler(handler func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorHandler = handler
}

// SetMessageHandler implements Transport.SetMessageHandler
func (t *HandlerTransport) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messageHandler = handler
}

// ServeHTTP accepts one JSON-RPC message per request and answers with the
// protocol layer's response.
func (t *HandlerTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read request: %v", err), http.StatusBadRequest)
		return
	}

	t.mu.RLock()
	handler := t.messageHandler
	t.mu.RUnlock()
	if handler == nil {
		http.Error(w, "MCP endpoint not ready", http.StatusServiceUnavailable)
		return
	}

	var request transport.BaseJSONRPCRequest
	if err := json.Unmarshal(body, &request); err == nil {
		t.dispatchRequest(w, r, handler, &request)
		return
	}

	var notification transport.BaseJSONRPCNotification
	if err := json.Unmarshal(body, &notification); err == nil {
		handler(r.Context(), transport.NewBaseMessageNotification(&notification))
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Error(w, "Invalid JSON-RPC message", http.StatusBadRequest)
}

func (t *HandlerTransport) dispatchRequest(
	w http.ResponseWriter,
	r *http.Request,
	handler func(ctx context.Context, message *transport.BaseJsonRpcMessage),
	request *transport.BaseJSONRPCRequest,
) {
	ch := make(chan *transport.BaseJsonRpcMessage, 1)
	t.pendingMu.Lock()
	t.pending[request.Id] = ch
	t.pendingMu.Unlock()

	handler(r.Context(), transport.NewBaseMessageRequest(request))

	select {
	case message := <-ch:
		t.writeMessage(w, message)
	case <-r.Context().Done():
		t.pendingMu.Lock()
		delete(t.pending, request.Id)
		t.pendingMu.Unlock()
	}
}

func (t *HandlerTransport) writeMessage(w http.ResponseWriter, message *transport.BaseJsonRpcMessage) {
	var out []byte
	var err error
	switch {
	case message.JsonRpcResponse != nil:
		out, err = json.Marshal(message.JsonRpcResponse)
	case message.JsonRpcError != nil:
		out, err = json.Marshal(message.JsonRpcError)
	default:
		err = fmt.Errorf("message has no response payload")
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(out); err != nil {
		logger.Error("failed to write MCP response", "error", err)
	}
}
