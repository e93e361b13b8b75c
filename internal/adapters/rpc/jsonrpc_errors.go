package rpc

// Conventional JSON-RPC 2.0 error code allocation. -32000 is the generic
// server-error code for execution failures; business rejections never use
// these, they travel as successful responses with isError content.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
)

func errParse(data string) *rpcError {
	return &rpcError{Code: codeParseError, Message: "Parse error", Data: data}
}

func errMethodNotFound(data string) *rpcError {
	return &rpcError{Code: codeMethodNotFound, Message: "Method not found", Data: data}
}

func errInvalidParams(data string) *rpcError {
	return &rpcError{Code: codeInvalidParams, Message: "Invalid params", Data: data}
}

func errServer(data string) *rpcError {
	return &rpcError{Code: codeServerError, Message: "Server error", Data: data}
}
