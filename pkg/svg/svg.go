/*
svg wraps raster images in an SVG container, with optional gzip
compression (SVGZ). The raster data is embedded base64-encoded, so the
result keeps the source resolution rather than becoming a true vector.
*/
package svg

import (
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"os"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const document = `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d"
     xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
    <image width="%d" height="%d"
           xlink:href="data:%s;base64,%s"/>
</svg>`

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Document returns an SVG document with the raster image embedded as a
// base64 data URI.
func Document(width, height int, mimeType string, data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Appendf(nil, document, width, height, width, height, width, height, mimeType, encoded)
}

// Write writes an SVG document to w, gzip-compressed when compress is set
func Write(w io.Writer, doc []byte, compress bool) error {
	if !compress {
		_, err := w.Write(doc)
		return err
	}
	gz := gzip.NewWriter(w)
	if _, err := gz.Write(doc); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// WriteFile writes an SVG document to path, gzip-compressed when
// compress is set
func WriteFile(path string, doc []byte, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, doc, compress); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
