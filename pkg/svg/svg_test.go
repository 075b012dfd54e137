package svg

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	// Packages
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

// writePNG writes a small PNG to path. When transparent is set, a corner
// pixel carries alpha so the image is not opaque.
func writePNG(t *testing.T, path string, transparent bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	if transparent {
		img.SetNRGBA(0, 0, color.NRGBA{A: 0})
	}
	f, err := os.Create(path)
	assert.NoError(t, err)
	assert.NoError(t, png.Encode(f, img))
	assert.NoError(t, f.Close())
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_document_001(t *testing.T) {
	assert := assert.New(t)

	data := []byte{0x01, 0x02, 0x03}
	doc := string(Document(64, 48, "image/png", data))
	assert.Contains(doc, `width="64" height="48"`)
	assert.Contains(doc, `viewBox="0 0 64 48"`)
	assert.Contains(doc, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
	assert.Contains(doc, `<?xml version="1.0" encoding="UTF-8"?>`)
}

func Test_write_001(t *testing.T) {
	assert := assert.New(t)

	doc := Document(8, 8, "image/png", []byte{0xFF})

	// Uncompressed output is the document itself
	var plain bytes.Buffer
	assert.NoError(Write(&plain, doc, false))
	assert.Equal(doc, plain.Bytes())

	// Compressed output is a gzip stream containing the document
	var compressed bytes.Buffer
	assert.NoError(Write(&compressed, doc, true))
	gz, err := gzip.NewReader(&compressed)
	assert.NoError(err)
	decompressed, err := io.ReadAll(gz)
	assert.NoError(err)
	assert.Equal(doc, decompressed)
}

func Test_convert_001(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	// An image with transparency stays PNG
	input := filepath.Join(dir, "sprite.png")
	writePNG(t, input, true)
	converted, err := ConvertFile(input, "", 95, false)
	assert.NoError(err)
	assert.Equal(input, converted.Input)
	assert.Equal(filepath.Join(dir, "sprite.svg"), converted.Output)
	assert.Equal(8, converted.Width)
	assert.Equal(6, converted.Height)

	data, err := os.ReadFile(converted.Output)
	assert.NoError(err)
	assert.Contains(string(data), "data:image/png;base64,")
}

func Test_convert_002(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	// An opaque image is re-encoded as JPEG
	input := filepath.Join(dir, "photo.png")
	writePNG(t, input, false)
	converted, err := ConvertFile(input, "", 80, false)
	assert.NoError(err)

	data, err := os.ReadFile(converted.Output)
	assert.NoError(err)
	assert.Contains(string(data), "data:image/jpeg;base64,")
}

func Test_convert_003(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	assert.NoError(os.MkdirAll(outDir, 0o755))

	// Compressed conversion writes a gzipped .svgz into the output directory
	input := filepath.Join(dir, "sprite.png")
	writePNG(t, input, true)
	converted, err := ConvertFile(input, outDir, 95, true)
	assert.NoError(err)
	assert.Equal(filepath.Join(outDir, "sprite.svgz"), converted.Output)

	f, err := os.Open(converted.Output)
	assert.NoError(err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	assert.NoError(err)
	data, err := io.ReadAll(gz)
	assert.NoError(err)
	assert.Contains(string(data), "<svg")
}

func Test_convert_004(t *testing.T) {
	assert := assert.New(t)

	// Unsupported extension
	_, err := ConvertFile("diagram.gif", "", 95, false)
	assert.Error(err)

	// Missing file
	_, err = ConvertFile(filepath.Join(t.TempDir(), "missing.png"), "", 95, false)
	assert.Error(err)

	assert.True(Supported("a.PNG"))
	assert.True(Supported("b.webp"))
	assert.False(Supported("c.gif"))
	assert.False(Supported("d"))
}
