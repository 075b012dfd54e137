package svg

import (
	"context"
	"encoding/json"
	"os"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	imagetools "github.com/mutablelogic/go-imagetools"
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ConvertRequest defines the input for the svg_convert tool
type ConvertRequest struct {
	InputPath  string   `json:"input_path,omitempty" jsonschema:"Single image file to convert"`
	InputPaths []string `json:"input_paths,omitempty" jsonschema:"List of image files for batch conversion"`
	OutputDir  string   `json:"output_dir,omitempty" jsonschema:"Directory to save converted files (defaults to the input directory)"`
	Quality    int      `json:"quality,omitempty" jsonschema:"JPEG quality for opaque images (0-100, default 95)"`
	Compress   bool     `json:"compress,omitempty" jsonschema:"Write gzip-compressed SVGZ files"`
}

// Failure describes one failed file conversion
type Failure struct {
	Input string `json:"input"`
	Error string `json:"error"`
}

// ConvertResponse summarises a conversion run
type ConvertResponse struct {
	Total     int          `json:"total"`
	Converted []*Converted `json:"converted"`
	Failed    []*Failure   `json:"failed,omitempty"`
	OutputDir string       `json:"output_dir,omitempty"`
}

type convertTool struct{}

var _ tool.Tool = (*convertTool)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTool returns the svg_convert tool
func NewTool() tool.Tool {
	return &convertTool{}
}

///////////////////////////////////////////////////////////////////////////////
// TOOL INTERFACE

func (*convertTool) Name() string {
	return "svg_convert"
}

func (*convertTool) Description() string {
	return "Convert PNG, JPG, JPEG or WebP images to SVG or compressed SVGZ format."
}

// Return the JSON schema for the tool input
func (*convertTool) Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[ConvertRequest](nil)
	if err != nil {
		return nil, err
	}
	tool.RangeSchema(schema, "quality", 0, 100)
	return schema, nil
}

// Run the tool with the given input
func (*convertTool) Run(_ context.Context, input json.RawMessage) (any, error) {
	var req ConvertRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, imagetools.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}

	// Exactly one of input_path and input_paths must be given
	if req.InputPath == "" && len(req.InputPaths) == 0 {
		return nil, imagetools.ErrMissingParameter.With("must provide either \"input_path\" or \"input_paths\"")
	}
	if req.InputPath != "" && len(req.InputPaths) > 0 {
		return nil, imagetools.ErrBadParameter.With("provide either \"input_path\" or \"input_paths\", not both")
	}

	// Apply defaults
	if req.Quality == 0 {
		req.Quality = 95
	}
	files := req.InputPaths
	if req.InputPath != "" {
		files = []string{req.InputPath}
	}

	// Reject unsupported formats before converting anything
	for _, path := range files {
		if !Supported(path) {
			return nil, imagetools.ErrBadParameter.Withf("unsupported format for file: %s (supported: png, jpg, jpeg, webp)", path)
		}
	}

	// Create the output directory when requested
	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return nil, err
		}
	}

	// Convert each file, continuing on individual failures
	response := &ConvertResponse{
		Total:     len(files),
		Converted: make([]*Converted, 0, len(files)),
		OutputDir: req.OutputDir,
	}
	for _, path := range files {
		converted, err := ConvertFile(path, req.OutputDir, req.Quality, req.Compress)
		if err != nil {
			response.Failed = append(response.Failed, &Failure{Input: path, Error: err.Error()})
			continue
		}
		response.Converted = append(response.Converted, converted)
	}

	return response, nil
}
