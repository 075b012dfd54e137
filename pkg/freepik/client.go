/*
freepik implements an API client for the Freepik background removal API.
https://docs.freepik.com/api-reference/remove-background
*/
package freepik

import (
	"context"
	"io"
	"net/http"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	imagetools "github.com/mutablelogic/go-imagetools"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client

	// Caller options, forwarded to the upload hosts so timeouts and
	// tracing apply to the whole staging pipeline
	opts []client.ClientOpt
}

// removeBackgroundRequest is form-encoded, exactly as documented
type removeBackgroundRequest struct {
	ImageURL string `json:"image_url"`
}

// removeBackgroundResponse carries URLs for the processed image
type removeBackgroundResponse struct {
	Original       string `json:"original,omitempty"`
	HighResolution string `json:"high_resolution,omitempty"`
	Preview        string `json:"preview,omitempty"`
	URL            string `json:"url,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint        = "https://api.freepik.com/v1"
	downloadTimeout = 2 * time.Minute
)

// downloadClient bounds result downloads, which bypass the API client
var downloadClient = &http.Client{Timeout: downloadTimeout}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Freepik API client with the given API key
func New(apiKey string, opts ...client.ClientOpt) (*Client, error) {
	if apiKey == "" {
		return nil, imagetools.ErrBadParameter.With("missing API key")
	}
	c, err := client.New(append(opts,
		client.OptEndpoint(endPoint),
		client.OptHeader("x-freepik-api-key", apiKey),
	)...)
	if err != nil {
		return nil, err
	}
	return &Client{Client: c, opts: opts}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RemoveBackground uploads the image to a public host, submits the public
// URL to the background removal API, then downloads and returns the
// transparent image bytes.
func (c *Client) RemoveBackground(ctx context.Context, name string, data []byte) ([]byte, error) {
	// The API accepts a public URL, not raw bytes, so stage the image first
	publicURL, err := Upload(ctx, name, data, c.opts...)
	if err != nil {
		return nil, err
	}

	// Submit for background removal
	payload, err := client.NewFormRequest(removeBackgroundRequest{ImageURL: publicURL}, client.ContentTypeJson)
	if err != nil {
		return nil, err
	}
	var response removeBackgroundResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("ai", "beta", "remove-background")); err != nil {
		return nil, imagetools.ErrExternalService.Withf("%v", err)
	}

	// Pick the best available URL for the transparent version
	transparentURL := response.URL
	if transparentURL == "" {
		transparentURL = response.HighResolution
	}
	if transparentURL == "" {
		return nil, imagetools.ErrExternalService.With("no transparent image URL in response")
	}

	return download(ctx, transparentURL)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// download fetches raw image bytes from an absolute URL. The result hosts
// serve binary data, so this bypasses the JSON-oriented API client.
func download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, imagetools.ErrExternalService.Withf("%v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, imagetools.ErrExternalService.Withf("download failed with status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, imagetools.ErrExternalService.Withf("%v", err)
	}
	return data, nil
}
