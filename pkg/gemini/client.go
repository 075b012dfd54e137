/*
gemini implements an API client for the Google Gemini image generation
REST API.
https://ai.google.dev/gemini-api/docs/image-generation
*/
package gemini

import (
	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint    = "https://generativelanguage.googleapis.com/v1beta"
	defaultName = "gemini"
)

const (
	// FlashImageModel is the fast image generation tier
	FlashImageModel = "gemini-2.5-flash-image"

	// ProImageModel is the professional image generation tier with
	// higher resolutions and grounding support
	ProImageModel = "gemini-3-pro-image-preview"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Gemini API client with the given API key
func New(apiKey string, opts ...client.ClientOpt) (*Client, error) {
	opts = append(opts,
		client.OptEndpoint(endPoint),
		client.OptHeader("x-goog-api-key", apiKey),
	)
	c, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{c}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return defaultName
}
