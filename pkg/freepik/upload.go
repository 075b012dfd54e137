package freepik

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	gomultipart "github.com/mutablelogic/go-client/pkg/multipart"
	imagetools "github.com/mutablelogic/go-imagetools"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// uguuUploadRequest is a multipart upload to uguu.se
type uguuUploadRequest struct {
	File gomultipart.File `json:"files[]"`
}

type uguuUploadResponse struct {
	Success bool `json:"success"`
	Files   []struct {
		URL string `json:"url"`
	} `json:"files"`
}

// tmpfilesUploadRequest is a multipart upload to tmpfiles.org
type tmpfilesUploadRequest struct {
	File gomultipart.File `json:"file"`
}

type tmpfilesUploadResponse struct {
	Status string `json:"status"`
	Data   struct {
		URL string `json:"url"`
	} `json:"data"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	uguuEndPoint     = "https://uguu.se"
	tmpfilesEndPoint = "https://tmpfiles.org"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Upload stages an image on a temporary public host and returns its URL.
// The first host that accepts the upload wins; the error joins all host
// failures when none do.
func Upload(ctx context.Context, name string, data []byte, opts ...client.ClientOpt) (string, error) {
	url, uguuErr := uploadUguu(ctx, name, data, opts...)
	if uguuErr == nil {
		return url, nil
	}
	url, tmpfilesErr := uploadTmpfiles(ctx, name, data, opts...)
	if tmpfilesErr == nil {
		return url, nil
	}
	return "", imagetools.ErrExternalService.Withf("all upload hosts failed: %v", errors.Join(uguuErr, tmpfilesErr))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func uploadUguu(ctx context.Context, name string, data []byte, opts ...client.ClientOpt) (string, error) {
	c, err := client.New(append(opts, client.OptEndpoint(uguuEndPoint))...)
	if err != nil {
		return "", err
	}

	payload, err := client.NewMultipartRequest(uguuUploadRequest{
		File: gomultipart.File{Path: name, Body: io.NopCloser(bytes.NewReader(data))},
	}, client.ContentTypeJson)
	if err != nil {
		return "", err
	}

	var response uguuUploadResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("upload")); err != nil {
		return "", err
	}
	if !response.Success || len(response.Files) == 0 || response.Files[0].URL == "" {
		return "", imagetools.ErrExternalService.With("upload rejected")
	}
	return response.Files[0].URL, nil
}

func uploadTmpfiles(ctx context.Context, name string, data []byte, opts ...client.ClientOpt) (string, error) {
	c, err := client.New(append(opts, client.OptEndpoint(tmpfilesEndPoint))...)
	if err != nil {
		return "", err
	}

	payload, err := client.NewMultipartRequest(tmpfilesUploadRequest{
		File: gomultipart.File{Path: name, Body: io.NopCloser(bytes.NewReader(data))},
	}, client.ContentTypeJson)
	if err != nil {
		return "", err
	}

	var response tmpfilesUploadResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("api", "v1", "upload")); err != nil {
		return "", err
	}
	if response.Status != "success" || response.Data.URL == "" {
		return "", imagetools.ErrExternalService.With("upload rejected")
	}
	return tmpfilesDownloadURL(response.Data.URL), nil
}

// tmpfilesDownloadURL rewrites a tmpfiles.org viewer page URL into the
// direct download form, which serves the raw bytes rather than HTML
func tmpfilesDownloadURL(url string) string {
	if strings.Contains(url, "tmpfiles.org/dl/") {
		return url
	}
	return strings.Replace(url, "tmpfiles.org/", "tmpfiles.org/dl/", 1)
}
