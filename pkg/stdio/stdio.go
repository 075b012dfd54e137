/*
Package stdio implements the local transport: newline-framed JSON requests
on standard input, one envelope per line on standard output. Requests are
processed strictly in order, one at a time.
*/
package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	// Packages
	imagetools "github.com/mutablelogic/go-imagetools"
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Server reads requests from a stream and dispatches them to a toolkit
type Server struct {
	toolkit *tool.Toolkit
}

// request is one framed request line
type request struct {
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a server for the given toolkit
func New(toolkit *tool.Toolkit) *Server {
	return &Server{toolkit: toolkit}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Run reads newline-framed requests from r until EOF or the context is
// done, writing one envelope per request to w. Blank lines are skipped.
func (server *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	var line string
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		part, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		line += string(part)
		if isPrefix {
			continue
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}

		result := server.process(ctx, line)
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		if _, err := writer.Write(append(data, '\n')); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
		line = ""
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// process decodes one request line and dispatches it
func (server *Server) process(ctx context.Context, line string) *tool.Result {
	var req request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return tool.NewErrorResult(imagetools.ErrBadParameter.Withf("failed to unmarshal request: %v", err))
	}
	return server.toolkit.Dispatch(ctx, req.Tool, req.Params)
}
