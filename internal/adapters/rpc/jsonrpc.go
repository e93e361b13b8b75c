package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tbnb-faucet/go-gateway/internal/domains/payout"
	"tbnb-faucet/go-gateway/internal/platform/metrics"
)

const maxBodyBytes int64 = 1 << 20 // 1 MiB

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// envelope is the shape probe for the two coexisting wire forms: the
// JSON-RPC tool-call envelope (method/params) and the legacy direct call
// (name/arguments). Method and Name are pointers so presence is detected
// explicitly instead of through decode failures.
type envelope struct {
	JSONRPC   string          `json:"jsonrpc"`
	ID        json.RawMessage `json:"id"`
	Method    *string         `json:"method"`
	Params    json.RawMessage `json:"params"`
	Name      *string         `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError"`
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	if !s.applyCORS(w, r) {
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Method == nil {
		// Plain HTTP clients get the bare tool list without the envelope.
		writeJSON(w, map[string]any{"tools": availableTools()})
		return
	}
	if *env.Method != "tools/list" {
		writeRPC(w, errorResponse(env.ID, errMethodNotFound("Unknown method: "+*env.Method)))
		metrics.CountRPC("tools/list", "method_not_found")
		return
	}
	writeRPC(w, resultResponse(env.ID, map[string]any{"tools": availableTools()}))
	metrics.CountRPC("tools/list", "ok")
}

func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	if !s.applyCORS(w, r) {
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.allowRequest(w, r) {
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	started := time.Now()
	call, rpcErr := decodeToolCall(body)
	if rpcErr != nil {
		writeRPC(w, errorResponse(call.id, rpcErr))
		metrics.CountRPC("tools/call", "protocol_error")
		return
	}

	var args payout.Arguments
	if len(call.arguments) > 0 && string(call.arguments) != "null" {
		if err := json.Unmarshal(call.arguments, &args); err != nil {
			writeRPC(w, errorResponse(call.id, errInvalidParams("Malformed tool arguments")))
			metrics.CountRPC("tools/call", "protocol_error")
			return
		}
	}

	outcome := s.service.Process(r.Context(), args)
	latency := time.Since(started).Milliseconds()

	switch outcome.Status {
	case payout.StatusApproved:
		slog.Default().Info("tool call approved",
			"request_id", outcome.RequestID, "tx_hash", outcome.TxHash, "latency_ms", latency)
		writeRPC(w, resultResponse(call.id, approvedResult(outcome)))
		metrics.CountRPC("tools/call", "approved")
	case payout.StatusRejected:
		slog.Default().Info("tool call rejected", "reason", outcome.Reason, "latency_ms", latency)
		writeRPC(w, resultResponse(call.id, rejectedResult(outcome)))
		metrics.CountRPC("tools/call", "rejected")
	default:
		slog.Default().Error("tool call failed", "error", outcome.Err, "latency_ms", latency)
		writeRPC(w, errorResponse(call.id, errServer(outcome.Err.Error())))
		metrics.CountRPC("tools/call", "failed")
	}
}

type decodedCall struct {
	id        json.RawMessage
	arguments json.RawMessage
}

// decodeToolCall performs ordered shape detection: JSON-RPC envelope first,
// then the legacy direct form, then a protocol error. The returned id is
// usable even on error, except for unparseable bodies where no id exists.
func decodeToolCall(body []byte) (decodedCall, *rpcError) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return decodedCall{id: json.RawMessage("null")}, errParse(err.Error())
	}

	var name string
	var call decodedCall
	switch {
	case env.Method != nil:
		if *env.Method != "tools/call" {
			return decodedCall{id: env.ID}, errMethodNotFound("Unknown method: " + *env.Method)
		}
		if len(env.Params) == 0 || string(env.Params) == "null" {
			return decodedCall{id: env.ID}, errInvalidParams("Missing params")
		}
		var params toolCallParams
		if err := json.Unmarshal(env.Params, &params); err != nil {
			return decodedCall{id: env.ID}, errInvalidParams("Malformed params")
		}
		name = params.Name
		call = decodedCall{id: env.ID, arguments: params.Arguments}
	case env.Name != nil:
		name = *env.Name
		call = decodedCall{id: env.ID, arguments: env.Arguments}
		if len(call.id) == 0 {
			generated, _ := json.Marshal(uuid.NewString())
			call.id = generated
		}
	default:
		return decodedCall{id: env.ID}, errInvalidParams("Missing tool name")
	}

	if name == "" {
		return call, errInvalidParams("Missing tool name")
	}
	if name != toolIssueTBNB {
		return call, errMethodNotFound("Unknown tool: " + name)
	}
	return call, nil
}

func approvedResult(outcome payout.Outcome) toolResult {
	text, _ := json.MarshalIndent(outcome.Response(), "", "  ")
	return toolResult{
		Content: []toolContent{{Type: "text", Text: string(text)}},
		IsError: false,
	}
}

func rejectedResult(outcome payout.Outcome) toolResult {
	text, _ := json.MarshalIndent(map[string]string{"error": outcome.Reason}, "", "  ")
	return toolResult{
		Content: []toolContent{{Type: "text", Text: string(text)}},
		IsError: true,
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		writeRPC(w, errorResponse(json.RawMessage("null"), errParse(err.Error())))
		return nil, false
	}
	return body, true
}

func resultResponse(id json.RawMessage, result any) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, rpcErr *rpcError) rpcResponse {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return rpcResponse{JSONRPC: "2.0", ID: id, Error: rpcErr}
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
