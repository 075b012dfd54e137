package generate

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Packages
	gemini "github.com/mutablelogic/go-imagetools/pkg/gemini"
	svg "github.com/mutablelogic/go-imagetools/pkg/svg"

	// Register decoders for dimension probing
	_ "image/jpeg"
	_ "image/png"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// saveImages writes generated images to disk when savePath is set,
// otherwise returns them inline as base64. A ".svg" extension wraps the
// raster data in an SVG container; anything else is written as PNG. When
// more than one image was generated, later images get a numeric suffix.
func saveImages(images []gemini.Image, savePath string) ([]*Image, error) {
	result := make([]*Image, 0, len(images))
	for i, img := range images {
		width, height := dimensions(img.Data)

		if savePath == "" {
			result = append(result, &Image{
				Data:     base64.StdEncoding.EncodeToString(img.Data),
				MIMEType: img.MIMEType,
				Width:    width,
				Height:   height,
			})
			continue
		}

		path := numberedPath(savePath, i)
		if strings.EqualFold(filepath.Ext(path), ".svg") {
			doc := svg.Document(width, height, img.MIMEType, img.Data)
			if err := svg.WriteFile(path, doc, false); err != nil {
				return nil, err
			}
		} else if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return nil, err
		}

		result = append(result, &Image{
			Path:     path,
			MIMEType: img.MIMEType,
			Width:    width,
			Height:   height,
		})
	}
	return result, nil
}

// numberedPath returns savePath for the first image and adds an index
// suffix for subsequent ones, normalizing the extension to .png unless
// an SVG container was requested.
func numberedPath(savePath string, index int) string {
	ext := filepath.Ext(savePath)
	base := strings.TrimSuffix(savePath, ext)
	if !strings.EqualFold(ext, ".svg") {
		ext = ".png"
	}
	if index == 0 {
		return base + ext
	}
	return fmt.Sprintf("%s_%d%s", base, index+1, ext)
}

func dimensions(data []byte) (int, int) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return config.Width, config.Height
}
