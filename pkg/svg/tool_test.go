package svg_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	// Packages
	imagetools "github.com/mutablelogic/go-imagetools"
	svg "github.com/mutablelogic/go-imagetools/pkg/svg"
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
	assert "github.com/stretchr/testify/assert"

	"image"
	"image/color"
	"image/png"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

func writeImage(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	assert.NoError(t, err)
	assert.NoError(t, png.Encode(f, img))
	assert.NoError(t, f.Close())
}

func dispatch(t *testing.T, params string) *tool.Result {
	t.Helper()
	toolkit, err := tool.NewToolkit(svg.NewTool())
	assert.NoError(t, err)
	return toolkit.Dispatch(t.Context(), "svg_convert", json.RawMessage(params))
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_tool_001(t *testing.T) {
	assert := assert.New(t)

	convert := svg.NewTool()
	assert.Equal("svg_convert", convert.Name())
	assert.NotEmpty(convert.Description())

	schema, err := convert.Schema()
	assert.NoError(err)
	assert.Contains(schema.Properties, "input_path")
	assert.Contains(schema.Properties, "input_paths")
	assert.Contains(schema.Properties, "quality")
}

func Test_tool_002(t *testing.T) {
	assert := assert.New(t)

	// Neither input parameter
	result := dispatch(t, `{}`)
	assert.False(result.Success)
	assert.Equal(imagetools.KindMissingParameter, result.Kind)

	// Both input parameters
	result = dispatch(t, `{"input_path":"a.png","input_paths":["b.png"]}`)
	assert.False(result.Success)
	assert.Equal(imagetools.KindInvalidParameter, result.Kind)

	// Quality out of range is rejected by the schema
	result = dispatch(t, `{"input_path":"a.png","quality":200}`)
	assert.False(result.Success)
	assert.Equal(imagetools.KindInvalidParameter, result.Kind)
}

func Test_tool_003(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "icon.png")
	writeImage(t, input)

	result := dispatch(t, fmt.Sprintf(`{"input_path":%q}`, input))
	assert.True(result.Success)

	data, err := json.Marshal(result.Value)
	assert.NoError(err)
	var response svg.ConvertResponse
	assert.NoError(json.Unmarshal(data, &response))
	assert.Equal(1, response.Total)
	assert.Len(response.Converted, 1)
	assert.Empty(response.Failed)
	assert.FileExists(filepath.Join(dir, "icon.svg"))
}

func Test_tool_004(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	// A batch continues past individual failures
	good := filepath.Join(dir, "good.png")
	writeImage(t, good)
	missing := filepath.Join(dir, "missing.png")

	result := dispatch(t, fmt.Sprintf(`{"input_paths":[%q,%q]}`, good, missing))
	assert.True(result.Success)

	data, err := json.Marshal(result.Value)
	assert.NoError(err)
	var response svg.ConvertResponse
	assert.NoError(json.Unmarshal(data, &response))
	assert.Equal(2, response.Total)
	assert.Len(response.Converted, 1)
	assert.Len(response.Failed, 1)
	assert.Equal(missing, response.Failed[0].Input)
}

func Test_tool_005(t *testing.T) {
	assert := assert.New(t)

	// An unsupported extension fails the whole request before converting
	result := dispatch(t, `{"input_path":"diagram.gif"}`)
	assert.False(result.Success)
	assert.Equal(imagetools.KindInvalidParameter, result.Kind)
	assert.Contains(result.Error, "diagram.gif")
}
