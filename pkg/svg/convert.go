package svg

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// Packages
	imagetools "github.com/mutablelogic/go-imagetools"

	// Register webp decoding
	_ "golang.org/x/image/webp"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Converted describes one successful file conversion
type Converted struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var supportedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Supported reports whether the file extension is a convertible raster format
func Supported(path string) bool {
	return supportedExt[strings.ToLower(filepath.Ext(path))]
}

// ConvertFile converts a raster image file to an SVG (or SVGZ) next to the
// input, or under outputDir when set. Images with transparency are embedded
// as PNG; opaque images are re-encoded as JPEG at the given quality.
func ConvertFile(path, outputDir string, quality int, compress bool) (*Converted, error) {
	if !Supported(path) {
		return nil, imagetools.ErrBadParameter.Withf("unsupported format %q (supported: png, jpg, jpeg, webp)", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, imagetools.ErrBadParameter.Withf("file not found: %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, imagetools.ErrBadParameter.Withf("cannot decode %s: %v", path, err)
	}
	bounds := img.Bounds()

	// Re-encode: keep PNG when the image has transparency, otherwise
	// compact to JPEG at the requested quality
	var buf bytes.Buffer
	var mimeType string
	if opaque(img) {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
		mimeType = "image/jpeg"
	} else {
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		mimeType = "image/png"
	}

	// Determine the output path
	ext := ".svg"
	if compress {
		ext = ".svgz"
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	output := filepath.Join(dir, base+ext)

	doc := Document(bounds.Dx(), bounds.Dy(), mimeType, buf.Bytes())
	if err := WriteFile(output, doc, compress); err != nil {
		return nil, err
	}

	return &Converted{
		Input:  path,
		Output: output,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}
