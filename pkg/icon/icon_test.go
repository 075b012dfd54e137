package icon

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	// Packages
	gemini "github.com/mutablelogic/go-imagetools/pkg/gemini"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

// mockGenerator returns a fixed square PNG, or fails for prompts
// containing the failure marker
type mockGenerator struct {
	calls   int
	failFor string
}

func (g *mockGenerator) GenerateIcon(_ context.Context, prompt string) (gemini.Image, error) {
	g.calls++
	if g.failFor != "" && strings.Contains(prompt, g.failFor) {
		return gemini.Image{}, fmt.Errorf("generation failed for %q", prompt)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	img.SetNRGBA(32, 32, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return gemini.Image{}, err
	}
	return gemini.Image{MIMEType: "image/png", Data: buf.Bytes()}, nil
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_styles_001(t *testing.T) {
	assert := assert.New(t)

	names := Styles()
	assert.GreaterOrEqual(len(names), 40)
	assert.Contains(names, "custom")
	assert.Contains(names, "minimal")
	assert.Contains(names, "glassmorphism")
	assert.Contains(names, "brands")
}

func Test_enhance_001(t *testing.T) {
	assert := assert.New(t)

	// No style applies the basic icon enhancement
	enhanced, err := enhancePrompt("rocket", "")
	assert.NoError(err)
	assert.Equal("Icon design: rocket. Simple, clean, bold outlines, perfect for an icon", enhanced)

	// A preset style injects its hidden prompt
	enhanced, err = enhancePrompt("rocket", "minimal")
	assert.NoError(err)
	assert.Contains(enhanced, "rocket. Icon design: ultra minimalist design")
	assert.Contains(enhanced, "bold outlines, perfect for an icon, professional quality")

	// Style names are case-insensitive
	enhanced2, err := enhancePrompt("rocket", "MINIMAL")
	assert.NoError(err)
	assert.Equal(enhanced, enhanced2)

	// The custom style produces an elaborate design brief
	enhanced, err = enhancePrompt("rocket", "custom")
	assert.NoError(err)
	assert.Contains(enhanced, "Design a sleek and modern rocket icon")

	// Unknown styles are rejected
	_, err = enhancePrompt("rocket", "not-a-style")
	assert.Error(err)
	assert.Contains(err.Error(), "not-a-style")
}

func Test_generate_001(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	// Single icon at the generated size
	mock := new(mockGenerator)
	savePath := filepath.Join(dir, "rocket.svg")
	icon, err := generate(t.Context(), mock, "rocket", "", nil, savePath)
	assert.NoError(err)
	assert.Equal("rocket", icon.Prompt)
	assert.Equal(64, icon.BaseSize)
	assert.Len(icon.Files, 1)
	assert.Equal(savePath, icon.Files[0].Path)
	assert.Equal(64, icon.Files[0].Size)
	assert.Equal(1, mock.calls)

	data, err := os.ReadFile(savePath)
	assert.NoError(err)
	assert.Contains(string(data), "<svg")
}

func Test_generate_002(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	// Multiple sizes get a size suffix, one generation call total
	mock := new(mockGenerator)
	savePath := filepath.Join(dir, "star.svg")
	icon, err := generate(t.Context(), mock, "star", "flat", []int{32, 64, 128}, savePath)
	assert.NoError(err)
	assert.Len(icon.Files, 3)
	assert.Equal(filepath.Join(dir, "star_32.svg"), icon.Files[0].Path)
	assert.Equal(filepath.Join(dir, "star_64.svg"), icon.Files[1].Path)
	assert.Equal(filepath.Join(dir, "star_128.svg"), icon.Files[2].Path)
	assert.Equal(1, mock.calls)
	for _, file := range icon.Files {
		assert.FileExists(file.Path)
	}
}

func Test_generate_003(t *testing.T) {
	assert := assert.New(t)

	// An unknown style fails before any generation call
	mock := new(mockGenerator)
	_, err := generate(t.Context(), mock, "rocket", "not-a-style", nil, "")
	assert.Error(err)
	assert.Zero(mock.calls)

	// A non-positive size fails before any generation call
	_, err = generate(t.Context(), mock, "rocket", "", []int{-1}, "")
	assert.Error(err)
	assert.Zero(mock.calls)
}

func Test_sanitize_001(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("rocket_ship", sanitizeFilename("Rocket Ship"))
	assert.Equal("a-b_c", sanitizeFilename("A-B_c!"))
	assert.Equal("caf", sanitizeFilename("café"))
	assert.Len(sanitizeFilename(strings.Repeat("x", 80)), 50)
}
