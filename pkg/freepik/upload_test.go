package freepik

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	// Packages
	client "github.com/mutablelogic/go-client"
	gomultipart "github.com/mutablelogic/go-client/pkg/multipart"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_payload_001(t *testing.T) {
	assert := assert.New(t)

	// The upload payloads encode the image bytes as a multipart file body
	data := []byte{0x89, 'P', 'N', 'G'}
	payload, err := client.NewMultipartRequest(uguuUploadRequest{
		File: gomultipart.File{Path: "square.png", Body: io.NopCloser(bytes.NewReader(data))},
	}, client.ContentTypeJson)
	assert.NoError(err)
	assert.NotNil(payload)

	payload, err = client.NewMultipartRequest(tmpfilesUploadRequest{
		File: gomultipart.File{Path: "square.png", Body: io.NopCloser(bytes.NewReader(data))},
	}, client.ContentTypeJson)
	assert.NoError(err)
	assert.NotNil(payload)
}

func Test_downloadurl_001(t *testing.T) {
	assert := assert.New(t)

	// tmpfiles viewer URLs are rewritten to the direct download form
	assert.Equal("https://tmpfiles.org/dl/123/square.png", tmpfilesDownloadURL("https://tmpfiles.org/123/square.png"))

	// Already-direct and foreign URLs pass through unchanged
	assert.Equal("https://tmpfiles.org/dl/123/square.png", tmpfilesDownloadURL("https://tmpfiles.org/dl/123/square.png"))
	assert.Equal("https://uguu.se/abc.png", tmpfilesDownloadURL("https://uguu.se/abc.png"))
}

func Test_download_001(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	data, err := download(t.Context(), server.URL+"/result.png")
	assert.NoError(err)
	assert.Equal([]byte("image-bytes"), data)

	_, err = download(t.Context(), server.URL+"/missing")
	assert.Error(err)

	// Downloads bypass the API client, so their transport carries its
	// own deadline
	assert.Greater(downloadClient.Timeout.Seconds(), 0.0)
}

func Test_clientopts_001(t *testing.T) {
	assert := assert.New(t)

	// Caller options are kept so the staging upload shares them
	c, err := New("test-key", client.OptTimeout(downloadTimeout))
	assert.NoError(err)
	assert.Len(c.opts, 1)
}
