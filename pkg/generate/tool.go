package generate

import (
	"context"
	"encoding/json"
	"slices"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	imagetools "github.com/mutablelogic/go-imagetools"
	gemini "github.com/mutablelogic/go-imagetools/pkg/gemini"
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type fastGenerate struct {
	generator *Generator
}

type proGenerate struct {
	generator *Generator
}

var _ tool.Tool = (*fastGenerate)(nil)
var _ tool.Tool = (*proGenerate)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTools returns the fast_generate and pro_generate tools backed by
// the given generator
func NewTools(generator *Generator) []tool.Tool {
	return []tool.Tool{
		&fastGenerate{generator: generator},
		&proGenerate{generator: generator},
	}
}

///////////////////////////////////////////////////////////////////////////////
// FAST GENERATE

func (*fastGenerate) Name() string {
	return "fast_generate"
}

func (*fastGenerate) Description() string {
	return "Fast image generation, editing and composition. Supports text-to-image, reference images and background removal."
}

// Return the JSON schema for the tool input
func (*fastGenerate) Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[FastRequest](nil)
	if err != nil {
		return nil, err
	}
	tool.EnumSchema(schema, "aspect_ratio", fastAspectRatios...)
	tool.EnumSchema(schema, "output_type", outputTypes...)
	return schema, nil
}

// Run the tool with the given input
func (t *fastGenerate) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req FastRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, imagetools.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}

	// Validate and apply defaults
	if req.Prompt == "" {
		return nil, imagetools.ErrMissingParameter.With("prompt is required")
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "1:1"
	}
	if !validAspectRatio(req.AspectRatio, false) {
		return nil, imagetools.ErrBadParameter.Withf("invalid aspect_ratio %q, must be one of %v", req.AspectRatio, fastAspectRatios)
	}
	if req.OutputType == "" {
		req.OutputType = "both"
	}
	if !slices.Contains(outputTypes, req.OutputType) {
		return nil, imagetools.ErrBadParameter.Withf("invalid output_type %q, must be one of %v", req.OutputType, outputTypes)
	}
	references, err := loadReferences(req.ReferenceImages, maxFastReferences)
	if err != nil {
		return nil, err
	}

	// Generate
	generation, err := t.generator.generate(ctx, &spec{
		model:            gemini.FlashImageModel,
		prompt:           req.Prompt,
		references:       references,
		aspectRatio:      req.AspectRatio,
		textResponse:     req.OutputType == "both",
		removeBackground: req.RemoveBackground,
		savePath:         req.SavePath,
	})
	if err != nil {
		return nil, err
	}

	// Save or inline the results
	images, err := saveImages(generation.Images, req.SavePath)
	if err != nil {
		return nil, err
	}

	return &Response{
		Model:             gemini.FlashImageModel,
		Prompt:            req.Prompt,
		AspectRatio:       req.AspectRatio,
		Text:              generation.Text,
		Images:            images,
		BackgroundRemoved: req.RemoveBackground,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRO GENERATE

func (*proGenerate) Name() string {
	return "pro_generate"
}

func (*proGenerate) Description() string {
	return "Professional image generation up to 4K resolution, with up to 14 reference images, Google Search grounding and thinking mode."
}

// Return the JSON schema for the tool input
func (*proGenerate) Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[ProRequest](nil)
	if err != nil {
		return nil, err
	}
	tool.EnumSchema(schema, "aspect_ratio", proAspectRatios...)
	tool.EnumSchema(schema, "resolution", resolutions...)
	tool.EnumSchema(schema, "output_type", outputTypes...)
	return schema, nil
}

// Run the tool with the given input
func (t *proGenerate) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req ProRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, imagetools.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}

	// Validate and apply defaults
	if req.Prompt == "" {
		return nil, imagetools.ErrMissingParameter.With("prompt is required")
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "1:1"
	}
	if !validAspectRatio(req.AspectRatio, true) {
		return nil, imagetools.ErrBadParameter.Withf("invalid aspect_ratio %q, must be one of %v", req.AspectRatio, proAspectRatios)
	}
	if req.Resolution == "" {
		req.Resolution = "2K"
	}
	if !slices.Contains(resolutions, req.Resolution) {
		return nil, imagetools.ErrBadParameter.Withf("invalid resolution %q, must be one of %v", req.Resolution, resolutions)
	}
	if req.OutputType == "" {
		req.OutputType = "both"
	}
	if !slices.Contains(outputTypes, req.OutputType) {
		return nil, imagetools.ErrBadParameter.Withf("invalid output_type %q, must be one of %v", req.OutputType, outputTypes)
	}
	if req.UseGoogleSearch && req.OutputType == "image_only" {
		return nil, imagetools.ErrBadParameter.With("use_google_search cannot be combined with output_type \"image_only\"")
	}
	references, err := loadReferences(req.ReferenceImages, maxProReferences)
	if err != nil {
		return nil, err
	}

	// Isolating the subject makes the background removal much more accurate
	prompt := req.Prompt
	if req.RemoveBackground {
		prompt += ", isolated object on plain white background"
	}

	// Generate
	generation, err := t.generator.generate(ctx, &spec{
		model:            gemini.ProImageModel,
		prompt:           prompt,
		references:       references,
		aspectRatio:      req.AspectRatio,
		resolution:       req.Resolution,
		textResponse:     req.OutputType == "both",
		googleSearch:     req.UseGoogleSearch,
		includeThoughts:  req.ShowThinking,
		removeBackground: req.RemoveBackground,
		savePath:         req.SavePath,
	})
	if err != nil {
		return nil, err
	}

	// Save or inline the results
	images, err := saveImages(generation.Images, req.SavePath)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Model:             gemini.ProImageModel,
		Prompt:            req.Prompt,
		AspectRatio:       req.AspectRatio,
		Resolution:        req.Resolution,
		Text:              generation.Text,
		Images:            images,
		BackgroundRemoved: req.RemoveBackground,
	}
	if req.ShowThinking {
		response.Thoughts = generation.Thoughts
	}
	return response, nil
}
