// Implements an MCP server based on the following specification:
// https://modelcontextprotocol.io/specification/2025-03-26/basic/lifecycle
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	// Packages
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Server struct {
	name    string
	version string

	// Private members
	mu          sync.RWMutex       // Handler map lock
	handlers    map[string]Handler // Method handlers
	toolkit     *tool.Toolkit      // Toolkit for the server
	initialised bool
}

type Handler func(context.Context, any, json.RawMessage) (any, error)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Create a new MCP server for the toolkit, with the given name and version
func New(name, version string, toolkit *tool.Toolkit) *Server {
	self := &Server{
		name:     name,
		version:  version,
		toolkit:  toolkit,
		handlers: make(map[string]Handler, 5),
	}

	// Register default handlers
	self.HandlerFunc(MessageTypeInitialize, self.handleInitialize)
	self.HandlerFunc(MessageTypePing, self.handlePing)
	self.HandlerFunc(NotificationTypeInitialize, self.handleInitialized)
	self.HandlerFunc(MessageTypeListTools, self.handleListTools)
	self.HandlerFunc(MessageTypeCallTool, self.handleCallTool)

	return self
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Implements an MCP server with standard input and output,
// and run in the foreground until the context is done.
func (server *Server) RunStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	// Request workers must be drained before the writer channel closes,
	// so they get their own group. Defers run in reverse order: wait for
	// the workers, close the channel, then wait for the writer.
	var workers, wg sync.WaitGroup
	defer wg.Wait()

	// Create a new buffered reader and writer
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	// Writer channel will write until the workers are done
	writerCh := make(chan []byte)
	defer close(writerCh)
	defer workers.Wait()

	wg.Go(func() {
		// On write failure, keep draining so workers never block on a
		// channel nobody reads
		var failed bool
		for data := range writerCh {
			if failed {
				continue
			}
			if _, err := writer.Write(data); err != nil {
				fmt.Fprintln(os.Stderr, "Error writing to output:", err)
				failed = true
				continue
			}
			// Flush the writer to ensure data is sent immediately
			writer.Flush()
		}
	})

	// Continue receiving input until the context is done
	var request string
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if part, isPrefix, err := reader.ReadLine(); err != nil {
			if err == io.EOF {
				break
			}
			return err
		} else if isPrefix {
			request += string(part)
			continue
		} else {
			request += string(part)
		}
		if request = strings.TrimSpace(request); request == "" {
			continue
		}

		// Process a request in the background, capturing the payload
		// before the loop resets it
		payload := request
		workers.Go(func() {
			response, err := server.Process(ctx, payload)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return
			} else if response != nil {
				// Write the response and a newline
				writerCh <- append(response, '\n')
			}
		})

		// Reset the request
		request = ""
	}

	// Return success
	return nil
}

// HandlerFunc registers (or removes) a handler for a method
func (server *Server) HandlerFunc(method string, fn Handler) {
	server.mu.Lock()
	defer server.mu.Unlock()
	if fn == nil {
		delete(server.handlers, method)
	} else {
		server.handlers[method] = fn
	}
}

// Process decodes one JSON-RPC message and returns the encoded response,
// or nil for a notification. Used by both the stdio loop and the HTTP
// transport.
func (server *Server) Process(ctx context.Context, payload string) ([]byte, error) {
	// Decode the request
	var request Request
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		return nil, err
	}

	// Look up and call the handler
	response := Response{Version: RPCVersion, ID: request.ID}
	if result, err := server.call(ctx, &request); err != nil {
		var target Error
		if errors.As(err, &target) {
			response.Err = &target
		} else {
			response.Err = NewError(0, err.Error())
		}
	} else if result == nil {
		// Notification, no response
		return nil, nil
	} else {
		response.Result = result
	}

	// Return the response
	return json.Marshal(response)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (server *Server) call(ctx context.Context, request *Request) (any, error) {
	server.mu.RLock()
	defer server.mu.RUnlock()

	fn, exists := server.handlers[request.Method]
	if !exists {
		return nil, NewError(ErrorCodeMethodNotFound, "method not found", request.Method)
	}

	return fn(ctx, request.ID, request.Payload)
}

///////////////////////////////////////////////////////////////////////////////
// HANDLERS

func (server *Server) handleInitialize(_ context.Context, _ any, _ json.RawMessage) (any, error) {
	response := new(ResponseInitialize)
	response.Version = ProtocolVersion
	response.ServerInfo.Name = server.name
	response.ServerInfo.Version = server.version
	response.Capabilities.Tools = map[string]any{
		"listChanged": false,
	}
	return response, nil
}

func (server *Server) handlePing(_ context.Context, _ any, _ json.RawMessage) (any, error) {
	return map[string]any{}, nil
}

func (server *Server) handleInitialized(_ context.Context, _ any, _ json.RawMessage) (any, error) {
	server.initialised = true
	return nil, nil
}

func (server *Server) handleListTools(_ context.Context, _ any, _ json.RawMessage) (any, error) {
	response := new(ResponseListTools)
	response.Tools = []*Tool{}
	for _, t := range server.toolkit.Tools() {
		jsonSchema, err := t.Schema()
		if err != nil {
			jsonSchema = nil
		}
		response.Tools = append(response.Tools, &Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: jsonSchema,
		})
	}
	return response, nil
}

func (server *Server) handleCallTool(ctx context.Context, _ any, payload json.RawMessage) (any, error) {
	var req RequestToolCall
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, NewError(ErrorCodeInvalidParameters, err.Error())
	}

	// Marshal arguments to pass to the toolkit
	var input json.RawMessage
	if req.Arguments != nil {
		data, err := json.Marshal(req.Arguments)
		if err != nil {
			return nil, NewError(ErrorCodeInvalidParameters, err.Error())
		}
		input = data
	}

	// Dispatch the tool and wrap the envelope as text content
	result := server.toolkit.Dispatch(ctx, req.Name, input)
	data, err := json.Marshal(result)
	if err != nil {
		return nil, NewError(ErrorInternalError, err.Error())
	}

	return &ResponseToolCall{
		Content: []*Content{{Type: "text", Text: string(data)}},
		Error:   !result.Success,
	}, nil
}
