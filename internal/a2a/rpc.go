package a2a

import (
	"encoding/json"
)

// JSON-RPC 2.0 error codes used on the wire. Codes below -32000 are reserved
// by the protocol; -32001 is the A2A task-not-found extension.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
	CodeTaskNotFound   = -32001
)

// Request is a JSON-RPC 2.0 request envelope. Params stays raw until the
// method handler decides how to decode it; ID is preserved as-is so string,
// number, and null ids all round-trip.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Valid reports whether the envelope is well-formed enough to dispatch.
func (r *Request) Valid() bool {
	return r.JSONRPC == "2.0" && r.Method != ""
}

// Response is a JSON-RPC 2.0 response envelope. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError is the error member of a failed JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// NewResult builds a success response bound to the request id.
func NewResult(id, result any) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

// NewError builds a failure response bound to the request id.
func NewError(id any, code int, message string, data any) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message, Data: data},
	}
}
