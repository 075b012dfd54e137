package gemini

///////////////////////////////////////////////////////////////////////////////
// TYPES - Gemini REST API wire format
//
// Reference: https://ai.google.dev/api/generate-content
//            https://ai.google.dev/gemini-api/docs/image-generation

// geminiContent is the base structured datatype containing multi-part content
// of a message turn. Maps to the REST API "Content" resource.
type geminiContent struct {
	Parts []*geminiPart `json:"parts"`
	Role  string        `json:"role,omitempty"`
}

// geminiPart is a single unit within a Content message. Exactly one of the
// data fields should be set. The thought flag is orthogonal and marks
// interim reasoning output.
type geminiPart struct {
	Thought    bool        `json:"thought,omitempty"`
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

// geminiBlob carries raw inline media bytes (images)
type geminiBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64-encoded
}

///////////////////////////////////////////////////////////////////////////////
// GENERATE CONTENT REQUEST

// geminiGenerateRequest is the request body for
// POST /v1beta/{model=models/*}:generateContent
type geminiGenerateRequest struct {
	Contents         []*geminiContent        `json:"contents"`
	Tools            []*geminiTool           `json:"tools,omitempty"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

// geminiGenerationConfig holds the generation parameters used for
// image output
type geminiGenerationConfig struct {
	ResponseModalities []string              `json:"responseModalities,omitempty"`
	ImageConfig        *geminiImageConfig    `json:"imageConfig,omitempty"`
	ThinkingConfig     *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
}

// geminiImageConfig controls aspect ratio and output resolution
type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"` // 1K, 2K, 4K
}

// geminiThinkingConfig controls the model's extended thinking output
type geminiThinkingConfig struct {
	IncludeThoughts bool `json:"includeThoughts,omitempty"`
}

// geminiTool is a tool the model may use during generation
type geminiTool struct {
	GoogleSearch *geminiGoogleSearch `json:"googleSearch,omitempty"`
}

// geminiGoogleSearch enables Google Search grounding
type geminiGoogleSearch struct{}

///////////////////////////////////////////////////////////////////////////////
// GENERATE CONTENT RESPONSE

// geminiGenerateResponse is the response from generateContent
type geminiGenerateResponse struct {
	Candidates     []*geminiCandidate    `json:"candidates,omitempty"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	ModelVersion   string                `json:"modelVersion,omitempty"`
	ResponseID     string                `json:"responseId,omitempty"`
}

// geminiCandidate is a single response candidate
type geminiCandidate struct {
	Content      *geminiContent `json:"content,omitempty"`
	FinishReason string         `json:"finishReason,omitempty"`
	Index        int            `json:"index,omitempty"`
}

// geminiPromptFeedback reports whether the prompt was blocked
type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// FINISH REASONS

const (
	geminiFinishReasonStop        = "STOP"
	geminiFinishReasonSafety      = "SAFETY"
	geminiFinishReasonImageSafety = "IMAGE_SAFETY"
)
