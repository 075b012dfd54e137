package generate

///////////////////////////////////////////////////////////////////////////////
// REQUEST TYPES

// FastRequest defines the input for the fast_generate tool
type FastRequest struct {
	Prompt           string   `json:"prompt" jsonschema:"Detailed description of the image to create or the edit to perform"`
	ReferenceImages  []string `json:"reference_images,omitempty" jsonschema:"Image file paths used for editing, style transfer or composition (max 5)"`
	AspectRatio      string   `json:"aspect_ratio,omitempty" jsonschema:"Output aspect ratio (default 1:1)"`
	OutputType       string   `json:"output_type,omitempty" jsonschema:"Return both text and image, or image only (default both)"`
	RemoveBackground bool     `json:"remove_background,omitempty" jsonschema:"Remove the background for true transparency"`
	SavePath         string   `json:"save_path,omitempty" jsonschema:"Path to save the generated image (.png or .svg)"`
}

// ProRequest defines the input for the pro_generate tool
type ProRequest struct {
	Prompt           string   `json:"prompt" jsonschema:"Detailed description of the image to create or the edit to perform"`
	ReferenceImages  []string `json:"reference_images,omitempty" jsonschema:"Image file paths used for editing, style transfer or composition (max 14)"`
	AspectRatio      string   `json:"aspect_ratio,omitempty" jsonschema:"Output aspect ratio (default 1:1)"`
	Resolution       string   `json:"resolution,omitempty" jsonschema:"Output resolution 1K, 2K or 4K (default 2K)"`
	OutputType       string   `json:"output_type,omitempty" jsonschema:"Return both text and image, or image only (default both)"`
	UseGoogleSearch  bool     `json:"use_google_search,omitempty" jsonschema:"Enable Google Search grounding for real-time data"`
	ShowThinking     bool     `json:"show_thinking,omitempty" jsonschema:"Include the model's reasoning in the response"`
	RemoveBackground bool     `json:"remove_background,omitempty" jsonschema:"Remove the background for true transparency"`
	SavePath         string   `json:"save_path,omitempty" jsonschema:"Path to save the generated image (.png or .svg)"`
}

///////////////////////////////////////////////////////////////////////////////
// RESPONSE TYPES

// Image describes one generated image, either saved to a path or
// returned inline as base64 data
type Image struct {
	Path     string `json:"path,omitempty"`
	Data     string `json:"data,omitempty"` // base64, when not saved
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Response is the result of a generation call
type Response struct {
	Model             string   `json:"model"`
	Prompt            string   `json:"prompt"`
	AspectRatio       string   `json:"aspect_ratio"`
	Resolution        string   `json:"resolution,omitempty"`
	Text              string   `json:"text,omitempty"`
	Thoughts          []string `json:"thoughts,omitempty"`
	Images            []*Image `json:"images"`
	BackgroundRemoved bool     `json:"background_removed,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Aspect ratios supported by the fast model
var fastAspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}

// The pro model supports additional ratios
var proAspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4", "2:3", "3:2", "4:5", "5:4", "21:9"}

var resolutions = []string{"1K", "2K", "4K"}

var outputTypes = []string{"both", "image_only"}

const (
	maxFastReferences = 5
	maxProReferences  = 14
)
