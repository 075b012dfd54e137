package mcp_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	mcp "github.com/mutablelogic/go-imagetools/pkg/mcp"
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

type pingRequest struct {
	Name string `json:"name,omitempty"`
}

type pingTool struct{}

func (pingTool) Name() string        { return "greet" }
func (pingTool) Description() string { return "Greet by name" }

func (pingTool) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[pingRequest](nil)
}

func (pingTool) Run(_ context.Context, input json.RawMessage) (any, error) {
	var req pingRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, err
		}
	}
	return map[string]string{"greeting": "hello " + req.Name}, nil
}

type slowTool struct{}

func (slowTool) Name() string        { return "slow" }
func (slowTool) Description() string { return "Respond after a delay" }

func (slowTool) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[pingRequest](nil)
}

func (slowTool) Run(_ context.Context, _ json.RawMessage) (any, error) {
	time.Sleep(200 * time.Millisecond)
	return map[string]string{"greeting": "finally"}, nil
}

func server(t *testing.T) *mcp.Server {
	t.Helper()
	toolkit, err := tool.NewToolkit(pingTool{})
	assert.NoError(t, err)
	return mcp.New("imagetools-test", "1.0.0", toolkit)
}

func process(t *testing.T, payload string) *mcp.Response {
	t.Helper()
	data, err := server(t).Process(t.Context(), payload)
	assert.NoError(t, err)
	if data == nil {
		return nil
	}
	var response mcp.Response
	assert.NoError(t, json.Unmarshal(data, &response))
	return &response
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_server_001(t *testing.T) {
	assert := assert.New(t)

	response := process(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	assert.NotNil(response)
	assert.Equal(mcp.RPCVersion, response.Version)
	assert.Nil(response.Err)

	data, err := json.Marshal(response.Result)
	assert.NoError(err)
	var result mcp.ResponseInitialize
	assert.NoError(json.Unmarshal(data, &result))
	assert.Equal(mcp.ProtocolVersion, result.Version)
	assert.Equal("imagetools-test", result.ServerInfo.Name)
}

func Test_server_002(t *testing.T) {
	assert := assert.New(t)

	// Notifications produce no response
	response := process(t, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Nil(response)

	// Ping returns an empty object
	response = process(t, `{"jsonrpc":"2.0","id":2,"method":"ping"}`)
	assert.NotNil(response)
	assert.Nil(response.Err)
}

func Test_server_003(t *testing.T) {
	assert := assert.New(t)

	response := process(t, `{"jsonrpc":"2.0","id":3,"method":"tools/list"}`)
	assert.NotNil(response)
	assert.Nil(response.Err)

	data, err := json.Marshal(response.Result)
	assert.NoError(err)
	var result mcp.ResponseListTools
	assert.NoError(json.Unmarshal(data, &result))
	assert.Len(result.Tools, 1)
	assert.Equal("greet", result.Tools[0].Name)
	assert.NotNil(result.Tools[0].InputSchema)
}

func Test_server_004(t *testing.T) {
	assert := assert.New(t)

	response := process(t, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"greet","arguments":{"name":"world"}}}`)
	assert.NotNil(response)
	assert.Nil(response.Err)

	data, err := json.Marshal(response.Result)
	assert.NoError(err)
	var result mcp.ResponseToolCall
	assert.NoError(json.Unmarshal(data, &result))
	assert.False(result.Error)
	assert.Len(result.Content, 1)
	assert.Equal("text", result.Content[0].Type)

	// The text content carries the standard envelope
	var envelope tool.Result
	assert.NoError(json.Unmarshal([]byte(result.Content[0].Text), &envelope))
	assert.True(envelope.Success)
}

func Test_server_005(t *testing.T) {
	assert := assert.New(t)

	// An unknown tool is a tool-level error, not a JSON-RPC error
	response := process(t, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"missing","arguments":{}}}`)
	assert.NotNil(response)
	assert.Nil(response.Err)

	data, err := json.Marshal(response.Result)
	assert.NoError(err)
	var result mcp.ResponseToolCall
	assert.NoError(json.Unmarshal(data, &result))
	assert.True(result.Error)

	var envelope tool.Result
	assert.NoError(json.Unmarshal([]byte(result.Content[0].Text), &envelope))
	assert.False(envelope.Success)
	assert.Equal("UnknownTool", envelope.Kind)
}

func Test_server_006(t *testing.T) {
	assert := assert.New(t)

	// An unknown method is a JSON-RPC error
	response := process(t, `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`)
	assert.NotNil(response)
	assert.NotNil(response.Err)
	assert.Equal(mcp.ErrorCodeMethodNotFound, response.Err.Code)
}

func Test_server_007(t *testing.T) {
	assert := assert.New(t)

	// Each request line fed to the stdio loop produces one response line,
	// carrying the payload of that request. Responses may arrive in any
	// order, so match them up by id.
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")
	var output bytes.Buffer
	assert.NoError(server(t).RunStdio(t.Context(), strings.NewReader(input), &output))

	responses := make(map[float64]*mcp.Response)
	scanner := bufio.NewScanner(&output)
	for scanner.Scan() {
		var response mcp.Response
		assert.NoError(json.Unmarshal(scanner.Bytes(), &response))
		responses[response.ID.(float64)] = &response
	}
	assert.Len(responses, 2)

	data, err := json.Marshal(responses[1].Result)
	assert.NoError(err)
	var result mcp.ResponseListTools
	assert.NoError(json.Unmarshal(data, &result))
	assert.Len(result.Tools, 1)
	assert.Equal("greet", result.Tools[0].Name)
	assert.Nil(responses[2].Err)
}

func Test_server_008(t *testing.T) {
	assert := assert.New(t)

	// A call still running when input reaches EOF is drained before the
	// loop returns, so its response is never lost
	toolkit, err := tool.NewToolkit(slowTool{})
	assert.NoError(err)

	input := `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"slow","arguments":{}}}` + "\n"
	var output bytes.Buffer
	assert.NoError(mcp.New("imagetools-test", "1.0.0", toolkit).RunStdio(t.Context(), strings.NewReader(input), &output))

	var response mcp.Response
	assert.NoError(json.Unmarshal(bytes.TrimSpace(output.Bytes()), &response))
	assert.Nil(response.Err)

	data, err := json.Marshal(response.Result)
	assert.NoError(err)
	var result mcp.ResponseToolCall
	assert.NoError(json.Unmarshal(data, &result))
	assert.False(result.Error)
	assert.Contains(result.Content[0].Text, "finally")
}
