package control

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/HMasataka/logging"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	websocketjsonrpc2 "github.com/sourcegraph/jsonrpc2/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type relayParams struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

// ServeRPC upgrades the connection and runs a JSON-RPC session over it.
// Lifecycle events are pushed as "relay_event" notifications until the
// peer disconnects.
func ServeRPC(manager *Manager, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade websocket", "error", err)
		return
	}

	handler := &rpcHandler{manager: manager}

	rpc := jsonrpc2.NewConn(
		r.Context(),
		websocketjsonrpc2.NewObjectStream(conn),
		jsonrpc2.AsyncHandler(handler),
	)
	defer rpc.Close()

	events, cancel := manager.Subscribe()
	defer cancel()

	go func() {
		for ev := range events {
			if err := rpc.Notify(r.Context(), "relay_event", ev); err != nil {
				slog.Warn("failed to push relay event", "error", err)
				return
			}
		}
	}()

	<-rpc.DisconnectNotify()
}

type rpcHandler struct {
	manager *Manager
}

func (h *rpcHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	switch request.Method {
	case "start":
		h.Start(ctx, conn, request)
	case "stop":
		h.Stop(ctx, conn, request)
	case "status":
		h.Status(ctx, conn, request)
	default:
		slog.Warn("unknown method", "method", request.Method)
	}
}

func (h *rpcHandler) Start(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	var args relayParams
	if err := json.Unmarshal(*request.Params, &args); err != nil {
		replyInvalidParams(ctx, conn, request, "Invalid params")
		return
	}

	status, err := h.manager.Start(args.SessionID, args.UserID)
	if err != nil {
		replyInvalidParams(ctx, conn, request, err.Error())
		return
	}

	if err := conn.Reply(ctx, request.ID, status); err != nil {
		slog.Error("failed to send start response", "error", err)
		return
	}

	if logging.HasLoggingContext(ctx) {
		slog.InfoContext(ctx, "relay started", slog.String("session_id", args.SessionID), slog.String("user_id", args.UserID))
	}
}

func (h *rpcHandler) Stop(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	var args relayParams
	if err := json.Unmarshal(*request.Params, &args); err != nil {
		replyInvalidParams(ctx, conn, request, "Invalid params")
		return
	}

	if err := h.manager.Stop(args.SessionID); err != nil {
		replyInvalidParams(ctx, conn, request, err.Error())
		return
	}

	if err := conn.Reply(ctx, request.ID, map[string]bool{"stopped": true}); err != nil {
		slog.Error("failed to send stop response", "error", err)
	}
}

func (h *rpcHandler) Status(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	var args relayParams
	if err := json.Unmarshal(*request.Params, &args); err != nil {
		replyInvalidParams(ctx, conn, request, "Invalid params")
		return
	}

	if args.SessionID == "" {
		if err := conn.Reply(ctx, request.ID, h.manager.List()); err != nil {
			slog.Error("failed to send status response", "error", err)
		}
		return
	}

	status, err := h.manager.Status(args.SessionID)
	if errors.Is(err, ErrRelayNotFound) {
		replyInvalidParams(ctx, conn, request, err.Error())
		return
	}

	if err := conn.Reply(ctx, request.ID, status); err != nil {
		slog.Error("failed to send status response", "error", err)
	}
}

func replyInvalidParams(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request, message string) {
	rpcErr := &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: message}
	if err := conn.ReplyWithError(ctx, request.ID, rpcErr); err != nil {
		slog.Error("failed to send error reply", "error", err, "method", request.Method)
	}
}
