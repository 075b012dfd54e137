package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	imagetools "github.com/mutablelogic/go-imagetools"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Tool is an interface for a tool with a name, description and JSON schema
type Tool interface {
	// Return the name of the tool
	Name() string

	// Return the description of the tool
	Description() string

	// Return the JSON schema for the tool input
	Schema() (*jsonschema.Schema, error)

	// Run the tool with the given input as JSON (may be nil)
	Run(ctx context.Context, input json.RawMessage) (any, error)
}

// Toolkit is a collection of tools with unique names. It is populated at
// process start and read-only afterwards, so lookups are safe for
// concurrent readers.
type Toolkit struct {
	tools map[string]Tool
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewToolkit creates a new toolkit with the given tools.
// Returns an error if any tool has an invalid or duplicate name.
func NewToolkit(tools ...Tool) (*Toolkit, error) {
	tk := &Toolkit{
		tools: make(map[string]Tool),
	}
	if err := tk.Register(tools...); err != nil {
		return nil, err
	}
	return tk, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Tools returns all tools in the toolkit, ordered by name
func (tk *Toolkit) Tools() []Tool {
	result := make([]Tool, 0, len(tk.tools))
	for _, t := range tk.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Register adds one or more tools to the toolkit.
// Returns an error if any tool has an empty or duplicate name.
func (tk *Toolkit) Register(tools ...Tool) error {
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return imagetools.ErrBadParameter.With("tool name cannot be empty")
		}
		if _, exists := tk.tools[name]; exists {
			return imagetools.ErrBadParameter.Withf("duplicate tool name: %q", name)
		}
		tk.tools[name] = t
	}
	return nil
}

// Lookup returns a tool by name, or nil if not found
func (tk *Toolkit) Lookup(name string) Tool {
	return tk.tools[name]
}

// Run executes a tool by name with the given input. The input is validated
// against the tool's schema before the handler is invoked: unknown keys,
// missing required parameters and type or enum mismatches are rejected
// without any external call being made. The handler is invoked exactly once.
func (tk *Toolkit) Run(ctx context.Context, name string, input json.RawMessage) (result any, err error) {
	// Lookup the tool before touching parameters
	tool := tk.Lookup(name)
	if tool == nil {
		return nil, imagetools.ErrNotFound.Withf("unknown tool: %q", name)
	}

	// Validate input against the tool schema
	if err := tk.validate(tool, input); err != nil {
		return nil, err
	}

	// A handler failure must never propagate as a fault to the transport
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = imagetools.ErrExternalService.Withf("tool %q: %v", name, r)
		}
	}()

	return tool.Run(ctx, input)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (tk *Toolkit) validate(tool Tool, input json.RawMessage) error {
	schema, err := tool.Schema()
	if err != nil {
		return imagetools.ErrInternalServerError.Withf("schema generation failed: %v", err)
	}
	if schema == nil {
		return nil
	}

	// Unmarshal into a map for validation
	mapInput := make(map[string]any)
	if len(input) > 0 {
		if err := json.Unmarshal(input, &mapInput); err != nil {
			return imagetools.ErrBadParameter.Withf("parameters must be a JSON object: %v", err)
		}
	}

	// Reject unknown parameter keys
	for key := range mapInput {
		if _, exists := schema.Properties[key]; !exists {
			return imagetools.ErrBadParameter.Withf("unknown parameter %q", key)
		}
	}

	// Check required parameters before any deeper validation, so the
	// error names the missing key
	for _, key := range schema.Required {
		if _, exists := mapInput[key]; !exists {
			return imagetools.ErrMissingParameter.Withf("missing required parameter %q", key)
		}
	}

	// Validate types, enums and ranges against the schema
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return imagetools.ErrInternalServerError.Withf("schema resolution failed: %v", err)
	}
	if err := resolved.Validate(mapInput); err != nil {
		return imagetools.ErrBadParameter.Withf("invalid parameters: %v", err)
	}

	return nil
}

///////////////////////////////////////////////////////////////////////////////
// SCHEMA HELPERS

// EnumSchema constrains a string property of the schema to the given set
// of values. It panics if the property does not exist, since that is a
// programming error caught by the tool's own tests.
func EnumSchema(schema *jsonschema.Schema, property string, values ...string) {
	field, exists := schema.Properties[property]
	if !exists || field == nil {
		panic(fmt.Sprintf("no such property: %q", property))
	}
	enum := make([]any, 0, len(values))
	for _, v := range values {
		enum = append(enum, v)
	}
	field.Enum = enum
}

// RangeSchema constrains a numeric property of the schema to [min, max].
func RangeSchema(schema *jsonschema.Schema, property string, min, max float64) {
	field, exists := schema.Properties[property]
	if !exists || field == nil {
		panic(fmt.Sprintf("no such property: %q", property))
	}
	field.Minimum = &min
	field.Maximum = &max
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (tk *Toolkit) String() string {
	names := make([]string, 0, len(tk.tools))
	for _, t := range tk.Tools() {
		names = append(names, t.Name())
	}
	data, err := json.Marshal(names)
	if err != nil {
		return err.Error()
	}
	return string(data)
}
