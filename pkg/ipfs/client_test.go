package ipfs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4e, 0x47}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ipfs", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Foo", r.FormValue("name"))
		assert.Equal(t, "FOO", r.FormValue("symbol"))
		assert.Equal(t, "A test token", r.FormValue("description"))
		assert.Equal(t, "https://x.com/foo", r.FormValue("twitter"))
		assert.Equal(t, "true", r.FormValue("showName"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "foo.png", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, image, data)

		json.NewEncoder(w).Encode(UploadResult{
			Metadata: Metadata{
				Name:   "Foo",
				Symbol: "FOO",
				Image:  "https://ipfs.io/ipfs/img123",
			},
			MetadataURI: "https://ipfs.io/ipfs/meta123",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Upload(context.Background(), UploadRequest{
		Image:       image,
		ImageName:   "foo.png",
		Name:        "Foo",
		Symbol:      "FOO",
		Description: "A test token",
		Twitter:     "https://x.com/foo",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://ipfs.io/ipfs/meta123", result.MetadataURI)
	assert.Equal(t, "https://ipfs.io/ipfs/img123", result.Metadata.Image)
}

func TestUploadDefaultsImageName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "token.png", header.Filename)

		json.NewEncoder(w).Encode(UploadResult{MetadataURI: "https://ipfs.io/ipfs/meta123"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Upload(context.Background(), UploadRequest{Image: []byte{0x01}, Name: "Foo", Symbol: "FOO"})
	require.NoError(t, err)
}

func TestUploadNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Upload(context.Background(), UploadRequest{Image: []byte{0x01}})

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, http.StatusInternalServerError, uploadErr.StatusCode)
}

func TestUploadMissingURI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Upload(context.Background(), UploadRequest{Image: []byte{0x01}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URI")
}
