/*
Package httphandler implements the remote transport: a single endpoint
accepting tool requests over HTTP POST. Logical tool failures are reported
in the response envelope with status 200; only malformed requests return
a non-200 status. A POST body carrying a "jsonrpc" field is handled as an
MCP message instead. GET returns a service status document.
*/
package httphandler

import (
	"encoding/json"
	"io"
	"net/http"

	// Packages
	mcp "github.com/mutablelogic/go-imagetools/pkg/mcp"
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
	server "github.com/mutablelogic/go-server"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Router interface {
	RegisterFunc(path string, handler http.HandlerFunc, middleware bool, spec *openapi.PathItem) error
}

// Status is the document returned on GET
type Status struct {
	Status   string                `json:"status"`
	Service  string                `json:"service"`
	Version  string                `json:"version"`
	Endpoint string                `json:"endpoint"`
	Method   string                `json:"method"`
	Env      StatusEnv             `json:"env"`
	Tools    map[string]StatusTool `json:"tools"`
}

type StatusEnv struct {
	Gemini  bool `json:"gemini"`
	Freepik bool `json:"freepik"`
}

type StatusTool struct {
	Description string `json:"description"`
}

// toolRequest is the POST body for a tool call
type toolRequest struct {
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const toolPath = "/mcp"

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /mcp
func ToolHandler(toolkit *tool.Toolkit, mcpServer *mcp.Server, status Status) (string, http.HandlerFunc, *openapi.PathItem) {
	return toolPath, func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), status)
			case http.MethodPost:
				handlePost(w, r, toolkit, mcpServer)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "Service status and tool catalogue",
			},
			Post: &openapi.Operation{
				Description: "Invoke a tool, or process an MCP message",
			},
		})
}

func RegisterHandlers(toolkit *tool.Toolkit, mcpServer *mcp.Server, status Status, router server.HTTPRouter, middleware bool) error {
	path, handler, spec := ToolHandler(toolkit, mcpServer, status)
	return router.(Router).RegisterFunc(path, handler, middleware, spec)
}

// NewStatus builds the GET status document from the toolkit and key
// configuration
func NewStatus(service, version string, geminiConfigured, freepikConfigured bool, toolkit *tool.Toolkit) Status {
	status := Status{
		Status:   "online",
		Service:  service,
		Version:  version,
		Endpoint: toolPath,
		Method:   http.MethodPost,
		Env: StatusEnv{
			Gemini:  geminiConfigured,
			Freepik: freepikConfigured,
		},
		Tools: make(map[string]StatusTool),
	}
	for _, t := range toolkit.Tools() {
		status.Tools[t.Name()] = StatusTool{Description: t.Description()}
	}
	return status
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// handlePost routes a POST body to either the MCP server or the dispatch
// core, depending on the presence of a "jsonrpc" field
func handlePost(w http.ResponseWriter, r *http.Request, toolkit *tool.Toolkit, mcpServer *mcp.Server) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With(err))
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		_ = httpresponse.Error(w, httpresponse.ErrBadRequest.Withf("failed to unmarshal request: %v", err))
		return
	}

	// MCP message
	if _, exists := fields["jsonrpc"]; exists {
		response, err := mcpServer.Process(r.Context(), string(body))
		if err != nil {
			_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With(err))
		} else if response == nil {
			// Notification
			w.WriteHeader(http.StatusNoContent)
		} else {
			writeJSON(w, response)
		}
		return
	}

	// Tool request
	var req toolRequest
	if err := json.Unmarshal(body, &req); err != nil {
		_ = httpresponse.Error(w, httpresponse.ErrBadRequest.Withf("failed to unmarshal request: %v", err))
		return
	}
	result := toolkit.Dispatch(r.Context(), req.Tool, req.Params)
	data, err := json.Marshal(result)
	if err != nil {
		_ = httpresponse.Error(w, httpresponse.ErrInternalError.With(err))
		return
	}
	writeJSON(w, data)
}

// writeJSON writes pre-encoded JSON with status 200, so the body matches
// the stdio transport byte for byte
func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
