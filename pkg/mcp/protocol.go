package mcp

import "encoding/json"

// Wire types for the JSON-RPC 2.0 framing and the MCP methods this server
// implements (initialize, tools/list, tools/call). Fields the dispatch loop
// never reads, like the request's protocol version marker, are omitted.

// Error codes returned by the dispatch loop.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

// Request is one incoming line on stdin. The ID is echoed back opaquely so
// clients may use numbers or strings.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is one outgoing line on stdout. Exactly one of Result and Error
// is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError reports a protocol-level failure. Tool-level failures travel as
// ToolCallResult with IsError set instead.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServerInfo identifies this server during the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult answers an initialize request.
type InitializeResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ServerInfo      ServerInfo `json:"serverInfo"`
	Capabilities    any        `json:"capabilities"`
}

// ToolDefinition advertises one stats tool, with a JSON-schema description
// of its filter arguments.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// ToolsListResult answers tools/list.
type ToolsListResult struct {
	Tools []ToolDefinition `json:"tools"`
}

// ToolCallParams carries the tool name and raw arguments of a tools/call
// request; each handler decodes the arguments it understands.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolCallResult answers tools/call. Stats render as text content blocks.
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is a single piece of tool output, always "text" here.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
