package generate

import (
	"context"
	"net/http"
	"os"
	"slices"

	// Packages
	uuid "github.com/google/uuid"
	client "github.com/mutablelogic/go-client"
	imagetools "github.com/mutablelogic/go-imagetools"
	freepik "github.com/mutablelogic/go-imagetools/pkg/freepik"
	gemini "github.com/mutablelogic/go-imagetools/pkg/gemini"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Generator performs image generation against the Gemini API with optional
// background removal through the Freepik API. Clients for which no API key
// was configured are left nil; calls requiring them fail per-request rather
// than at startup.
type Generator struct {
	gemini  *gemini.Client
	freepik *freepik.Client
}

// spec is a normalized, validated generation request
type spec struct {
	model            string
	prompt           string
	references       []gemini.Image
	aspectRatio      string
	resolution       string
	textResponse     bool
	googleSearch     bool
	includeThoughts  bool
	removeBackground bool
	savePath         string
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a generator. Either key may be empty, in which case the
// corresponding external calls fail when attempted.
func New(geminiKey, freepikKey string, opts ...client.ClientOpt) (*Generator, error) {
	g := new(Generator)
	if geminiKey != "" {
		c, err := gemini.New(geminiKey, opts...)
		if err != nil {
			return nil, err
		}
		g.gemini = c
	}
	if freepikKey != "" {
		c, err := freepik.New(freepikKey, opts...)
		if err != nil {
			return nil, err
		}
		g.freepik = c
	}
	return g, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GenerateIcon generates a single square image with the background removed
// and returns it, for use by the icon tools.
func (g *Generator) GenerateIcon(ctx context.Context, prompt string) (gemini.Image, error) {
	generation, err := g.generate(ctx, &spec{
		model:            gemini.FlashImageModel,
		prompt:           prompt,
		aspectRatio:      "1:1",
		removeBackground: true,
	})
	if err != nil {
		return gemini.Image{}, err
	}
	return generation.Images[0], nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// generate performs the external calls for a spec: one generation call,
// then background removal per image when requested.
func (g *Generator) generate(ctx context.Context, s *spec) (*gemini.Generation, error) {
	if g.gemini == nil {
		return nil, imagetools.ErrExternalService.With("GEMINI_API_KEY is not set")
	}
	if s.removeBackground && g.freepik == nil {
		return nil, imagetools.ErrExternalService.With("FREEPIK_API_KEY is not set")
	}

	generation, err := g.gemini.Generate(ctx, &gemini.GenerateRequest{
		Model:           s.model,
		Prompt:          s.prompt,
		References:      s.references,
		AspectRatio:     s.aspectRatio,
		Resolution:      s.resolution,
		TextResponse:    s.textResponse,
		GoogleSearch:    s.googleSearch,
		IncludeThoughts: s.includeThoughts,
	})
	if err != nil {
		return nil, err
	}

	if s.removeBackground {
		for i := range generation.Images {
			data, err := g.freepik.RemoveBackground(ctx, uuid.NewString()+".png", generation.Images[i].Data)
			if err != nil {
				return nil, err
			}
			generation.Images[i] = gemini.Image{MIMEType: "image/png", Data: data}
		}
	}

	return generation, nil
}

// loadReferences reads reference image files from disk and detects their
// MIME types. Validation happens before any external call is made.
func loadReferences(paths []string, limit int) ([]gemini.Image, error) {
	if len(paths) > limit {
		return nil, imagetools.ErrBadParameter.Withf("maximum %d reference images allowed, got %d", limit, len(paths))
	}
	references := make([]gemini.Image, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, imagetools.ErrBadParameter.Withf("reference image not found: %s", path)
		}
		mimeType := http.DetectContentType(data)
		if mimeType[:6] != "image/" {
			return nil, imagetools.ErrBadParameter.Withf("reference file is not an image: %s (%s)", path, mimeType)
		}
		references = append(references, gemini.Image{MIMEType: mimeType, Data: data})
	}
	return references, nil
}

func validAspectRatio(ratio string, pro bool) bool {
	if pro {
		return slices.Contains(proAspectRatios, ratio)
	}
	return slices.Contains(fastAspectRatios, ratio)
}
