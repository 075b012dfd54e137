/*
Package icon generates scalable SVG icons. A prompt is enhanced with an
optional style preset, a square transparent image is generated, and the
result is wrapped as SVG at one or more sizes.
*/
package icon

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	// Packages
	imagetools "github.com/mutablelogic/go-imagetools"
	gemini "github.com/mutablelogic/go-imagetools/pkg/gemini"
	svg "github.com/mutablelogic/go-imagetools/pkg/svg"
	draw "golang.org/x/image/draw"

	// Register image decoders
	_ "image/jpeg"
	"image/png"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ImageGenerator produces a square image with the background removed
// from a prompt
type ImageGenerator interface {
	GenerateIcon(ctx context.Context, prompt string) (gemini.Image, error)
}

// File is one generated icon file
type File struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

// Icon is the result of one icon generation
type Icon struct {
	Prompt   string  `json:"prompt"`
	Style    string  `json:"style,omitempty"`
	BaseSize int     `json:"base_size"`
	Files    []*File `json:"files"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const defaultSavePath = "icon_output.svg"

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// generate runs the icon pipeline: enhance the prompt, generate a square
// transparent image, then write one SVG per requested size.
func generate(ctx context.Context, g ImageGenerator, prompt, style string, sizes []int, savePath string) (*Icon, error) {
	enhanced, err := enhancePrompt(prompt, style)
	if err != nil {
		return nil, err
	}
	for _, size := range sizes {
		if size <= 0 {
			return nil, imagetools.ErrBadParameter.Withf("invalid size %d, sizes must be positive", size)
		}
	}

	generated, err := g.GenerateIcon(ctx, enhanced)
	if err != nil {
		return nil, err
	}

	base, _, err := image.Decode(bytes.NewReader(generated.Data))
	if err != nil {
		return nil, imagetools.ErrExternalService.Withf("failed to decode generated image: %v", err)
	}
	baseSize := base.Bounds().Dx()

	if len(sizes) == 0 {
		sizes = []int{baseSize}
	}
	if savePath == "" {
		savePath = defaultSavePath
	}
	baseName := strings.TrimSuffix(strings.TrimSuffix(savePath, ".svg"), ".SVG")

	icon := &Icon{
		Prompt:   prompt,
		Style:    style,
		BaseSize: baseSize,
		Files:    make([]*File, 0, len(sizes)),
	}
	for _, size := range sizes {
		data := generated.Data
		if size != baseSize {
			if data, err = resize(base, size); err != nil {
				return nil, err
			}
		}
		path := baseName + ".svg"
		if len(sizes) > 1 {
			path = fmt.Sprintf("%s_%d.svg", baseName, size)
		}
		if err := svg.WriteFile(path, svg.Document(size, size, "image/png", data), false); err != nil {
			return nil, err
		}
		icon.Files = append(icon.Files, &File{Path: path, Size: size})
	}

	return icon, nil
}

// resize scales the image to a square of the given size and re-encodes
// it as PNG, preserving the alpha channel
func resize(src image.Image, size int) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, imagetools.ErrInternalServerError.Withf("failed to encode resized image: %v", err)
	}
	return buf.Bytes(), nil
}
