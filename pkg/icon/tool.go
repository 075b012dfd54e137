package icon

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	imagetools "github.com/mutablelogic/go-imagetools"
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// GenerateRequest are the parameters for a single icon generation
type GenerateRequest struct {
	Prompt   string `json:"prompt,omitempty" jsonschema:"A word or short phrase describing the icon"`
	Style    string `json:"style,omitempty" jsonschema:"Style preset name applied to the prompt"`
	Sizes    []int  `json:"sizes,omitempty" jsonschema:"Sizes in pixels to generate, one SVG per size"`
	SavePath string `json:"save_path,omitempty" jsonschema:"Path to save the SVG icon (default icon_output.svg)"`
}

// BatchItem is one icon in an advanced batch, with per-icon overrides
type BatchItem struct {
	Prompt string `json:"prompt,omitempty" jsonschema:"A word or short phrase describing the icon"`
	Style  string `json:"style,omitempty" jsonschema:"Style preset overriding the batch default"`
	Sizes  []int  `json:"sizes,omitempty" jsonschema:"Sizes overriding the batch default"`
}

// BatchRequest are the parameters for a batch icon generation. Either
// prompts or icons is given, not both.
type BatchRequest struct {
	Prompts   []string     `json:"prompts,omitempty" jsonschema:"Icon descriptions, all sharing the same style and sizes"`
	Icons     []*BatchItem `json:"icons,omitempty" jsonschema:"Icons with individual style and size settings"`
	Style     string       `json:"style,omitempty" jsonschema:"Default style preset for all icons"`
	Sizes     []int        `json:"sizes,omitempty" jsonschema:"Default sizes for all icons"`
	OutputDir string       `json:"output_dir,omitempty" jsonschema:"Directory for the generated icons (default batch_icons)"`
}

// BatchResponse summarizes a batch run. Results are in the same order as
// the request items.
type BatchResponse struct {
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	OutputDir  string         `json:"output_dir"`
	Results    []*tool.Result `json:"results"`
}

type iconGenerate struct {
	generator ImageGenerator
}

type batchIconGenerate struct {
	generator ImageGenerator
}

var _ tool.Tool = (*iconGenerate)(nil)
var _ tool.Tool = (*batchIconGenerate)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultOutputDir = "batch_icons"
	maxBatchWorkers  = 4
	maxFilenameLen   = 50
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTools returns the icon_generate and batch_icon_generate tools backed
// by the given image generator
func NewTools(generator ImageGenerator) []tool.Tool {
	return []tool.Tool{
		&iconGenerate{generator: generator},
		&batchIconGenerate{generator: generator},
	}
}

///////////////////////////////////////////////////////////////////////////////
// ICON GENERATE

func (*iconGenerate) Name() string {
	return "icon_generate"
}

func (*iconGenerate) Description() string {
	return "Generate a scalable SVG icon with a transparent background from a short description, with optional style presets and multiple sizes."
}

// Return the JSON schema for the tool input
func (*iconGenerate) Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[GenerateRequest](nil)
	if err != nil {
		return nil, err
	}
	tool.EnumSchema(schema, "style", Styles()...)
	return schema, nil
}

// Run the tool with the given input
func (t *iconGenerate) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req GenerateRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, imagetools.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	if req.Prompt == "" {
		return nil, imagetools.ErrMissingParameter.With("prompt is required")
	}
	return generate(ctx, t.generator, req.Prompt, req.Style, req.Sizes, req.SavePath)
}

///////////////////////////////////////////////////////////////////////////////
// BATCH ICON GENERATE

func (*batchIconGenerate) Name() string {
	return "batch_icon_generate"
}

func (*batchIconGenerate) Description() string {
	return "Generate a set of SVG icons in one call. Individual failures do not stop the batch; results are returned in request order."
}

// Return the JSON schema for the tool input
func (*batchIconGenerate) Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[BatchRequest](nil)
	if err != nil {
		return nil, err
	}
	tool.EnumSchema(schema, "style", Styles()...)
	return schema, nil
}

// Run the tool with the given input
func (t *batchIconGenerate) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req BatchRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, imagetools.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}

	// Validate and apply defaults
	if len(req.Prompts) == 0 && len(req.Icons) == 0 {
		return nil, imagetools.ErrMissingParameter.With("either prompts or icons is required")
	}
	if len(req.Prompts) > 0 && len(req.Icons) > 0 {
		return nil, imagetools.ErrBadParameter.With("provide either prompts or icons, not both")
	}
	if req.OutputDir == "" {
		req.OutputDir = defaultOutputDir
	}

	// Build the job list
	jobs := make([]*BatchItem, 0, len(req.Prompts)+len(req.Icons))
	for _, prompt := range req.Prompts {
		jobs = append(jobs, &BatchItem{Prompt: prompt, Style: req.Style, Sizes: req.Sizes})
	}
	for _, item := range req.Icons {
		job := &BatchItem{Prompt: item.Prompt, Style: item.Style, Sizes: item.Sizes}
		if job.Style == "" {
			job.Style = req.Style
		}
		if len(job.Sizes) == 0 {
			job.Sizes = req.Sizes
		}
		if job.Prompt == "" {
			return nil, imagetools.ErrMissingParameter.With("each icon requires a prompt")
		}
		jobs = append(jobs, job)
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return nil, imagetools.ErrBadParameter.Withf("failed to create output directory: %v", err)
	}

	// Derive one output path per job. Prompts that sanitize to the same
	// filename are disambiguated with the item position so icons within
	// a batch never overwrite each other.
	savePaths := make([]string, len(jobs))
	seen := make(map[string]bool, len(jobs))
	for i, job := range jobs {
		name := sanitizeFilename(job.Prompt)
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}
		seen[name] = true
		savePaths[i] = filepath.Join(req.OutputDir, name+".svg")
	}

	// Run the jobs with bounded concurrency, keeping request order
	results := make([]*tool.Result, len(jobs))
	var group errgroup.Group
	group.SetLimit(maxBatchWorkers)
	for i, job := range jobs {
		group.Go(func() error {
			icon, err := generate(ctx, t.generator, job.Prompt, job.Style, job.Sizes, savePaths[i])
			if err != nil {
				results[i] = tool.NewErrorResult(err)
			} else {
				results[i] = tool.NewResult(icon)
			}
			return nil
		})
	}
	group.Wait()

	// Summarize
	response := &BatchResponse{
		Total:     len(jobs),
		OutputDir: req.OutputDir,
		Results:   results,
	}
	for _, result := range results {
		if result.Success {
			response.Successful++
		} else {
			response.Failed++
		}
	}
	return response, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// sanitizeFilename derives a safe filename from a prompt, keeping only
// alphanumerics, dashes and underscores, up to a fixed length
func sanitizeFilename(prompt string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(prompt) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		case r == ' ':
			builder.WriteRune('_')
		}
	}
	name := builder.String()
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	return name
}
