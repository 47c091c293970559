package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/metoro-io/mcp-golang/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerTransportAnswersRequests(t *testing.T) {
	tr := NewHandlerTransport()
	tr.SetMessageHandler(func(ctx context.Context, msg *transport.BaseJsonRpcMessage) {
		require.NotNil(t, msg.JsonRpcRequest)
		resp := &transport.BaseJSONRPCResponse{
			Jsonrpc: "2.0",
			Id:      msg.JsonRpcRequest.Id,
			Result:  json.RawMessage(`{"ok":true}`),
		}
		require.NoError(t, tr.Send(ctx, transport.NewBaseMessageResponse(resp)))
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp",
		strings.NewReader(`{"jsonrpc":"2.0","id":7,"method":"tools/list","params":{}}`))
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.BaseJSONRPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, transport.RequestId(7), resp.Id)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Result))
}

func TestHandlerTransportAcceptsNotifications(t *testing.T) {
	tr := NewHandlerTransport()

	var gotMethod string
	tr.SetMessageHandler(func(ctx context.Context, msg *transport.BaseJsonRpcMessage) {
		if msg.JsonRpcNotification != nil {
			gotMethod = msg.JsonRpcNotification.Method
		}
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp",
		strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "notifications/initialized", gotMethod)
}

func TestHandlerTransportRejectsGarbage(t *testing.T) {
	tr := NewHandlerTransport()
	tr.SetMessageHandler(func(ctx context.Context, msg *transport.BaseJsonRpcMessage) {})

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerTransportWithoutHandler(t *testing.T) {
	tr := NewHandlerTransport()

	req := httptest.NewRequest(http.MethodPost, "/mcp",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping","params":{}}`))
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerTransportGetNotAllowed(t *testing.T) {
	tr := NewHandlerTransport()

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
