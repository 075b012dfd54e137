package gemini

import (
	"context"
	"encoding/base64"

	// Packages
	client "github.com/mutablelogic/go-client"
	imagetools "github.com/mutablelogic/go-imagetools"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// GenerateRequest describes a single image generation call
type GenerateRequest struct {
	// Model to use (FlashImageModel or ProImageModel)
	Model string

	// Prompt describing the image to generate or the edit to perform
	Prompt string

	// Optional reference images sent alongside the prompt
	References []Image

	// Aspect ratio, e.g. "1:1", "16:9"
	AspectRatio string

	// Resolution is "1K", "2K" or "4K" (pro model only, empty otherwise)
	Resolution string

	// TextResponse requests a text part alongside the image
	TextResponse bool

	// GoogleSearch enables search grounding (pro model only)
	GoogleSearch bool

	// IncludeThoughts requests the model's interim reasoning
	IncludeThoughts bool
}

// Image is a single raster image with its MIME type
type Image struct {
	MIMEType string
	Data     []byte
}

// Generation is the decoded result of a generate call
type Generation struct {
	Text     string
	Thoughts []string
	Images   []Image
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generate performs one generateContent call and decodes the image and
// text parts of the response. It returns an error if the model produced
// no images.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*Generation, error) {
	if req == nil || req.Prompt == "" {
		return nil, imagetools.ErrBadParameter.With("prompt is required")
	}
	model := req.Model
	if model == "" {
		model = FlashImageModel
	}

	// Build the content parts: prompt text first, then reference images
	parts := make([]*geminiPart, 0, len(req.References)+1)
	parts = append(parts, &geminiPart{Text: req.Prompt})
	for _, ref := range req.References {
		parts = append(parts, &geminiPart{
			InlineData: &geminiBlob{
				MIMEType: ref.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(ref.Data),
			},
		})
	}

	// Generation config
	config := &geminiGenerationConfig{
		ResponseModalities: []string{"IMAGE"},
	}
	if req.TextResponse {
		config.ResponseModalities = []string{"TEXT", "IMAGE"}
	}
	if req.AspectRatio != "" || req.Resolution != "" {
		config.ImageConfig = &geminiImageConfig{
			AspectRatio: req.AspectRatio,
			ImageSize:   req.Resolution,
		}
	}
	if req.IncludeThoughts {
		config.ThinkingConfig = &geminiThinkingConfig{IncludeThoughts: true}
	}

	request := &geminiGenerateRequest{
		Contents: []*geminiContent{{
			Parts: parts,
			Role:  "user",
		}},
		GenerationConfig: config,
	}
	if req.GoogleSearch {
		request.Tools = []*geminiTool{{GoogleSearch: &geminiGoogleSearch{}}}
	}

	// Create JSON payload
	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return nil, err
	}

	// Request -> Response
	var response geminiGenerateResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("models", model+":generateContent")); err != nil {
		return nil, imagetools.ErrExternalService.Withf("%v", err)
	}

	return decodeGeneration(&response)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func decodeGeneration(response *geminiGenerateResponse) (*Generation, error) {
	if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
		return nil, imagetools.ErrExternalService.Withf("prompt blocked: %s", response.PromptFeedback.BlockReason)
	}
	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return nil, imagetools.ErrExternalService.With("no candidates in response")
	}

	candidate := response.Candidates[0]
	switch candidate.FinishReason {
	case "", geminiFinishReasonStop:
		// Normal completion
	case geminiFinishReasonSafety, geminiFinishReasonImageSafety:
		return nil, imagetools.ErrExternalService.Withf("generation blocked: %s", candidate.FinishReason)
	}

	result := new(Generation)
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			if part.Thought {
				result.Thoughts = append(result.Thoughts, part.Text)
			} else if result.Text == "" {
				result.Text = part.Text
			} else {
				result.Text += "\n" + part.Text
			}
			continue
		}
		if part.InlineData != nil {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, imagetools.ErrExternalService.Withf("invalid image data: %v", err)
			}
			result.Images = append(result.Images, Image{
				MIMEType: part.InlineData.MIMEType,
				Data:     data,
			})
		}
	}

	if len(result.Images) == 0 {
		return nil, imagetools.ErrExternalService.With("no images were generated")
	}
	return result, nil
}
