package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public metadata-storage endpoint
const DefaultBaseURL = "https://pump.fun"

// UploadRequest carries the image and descriptive fields for a token's
// immutable metadata document.
type UploadRequest struct {
	Image       []byte
	ImageName   string
	Name        string
	Symbol      string
	Description string
	Twitter     string
	Telegram    string
	Website     string
}

// Metadata is the canonicalized metadata document returned by the
// storage service.
type Metadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ShowName    bool   `json:"showName"`
	CreatedOn   string `json:"createdOn"`
	Twitter     string `json:"twitter"`
	Telegram    string `json:"telegram"`
	Website     string `json:"website"`
}

// UploadResult holds the stable URI of the stored metadata plus the
// canonicalized document itself.
type UploadResult struct {
	Metadata    Metadata `json:"metadata"`
	MetadataURI string   `json:"metadataUri"`
}

// UploadError carries a non-success response from the storage service
type UploadError struct {
	StatusCode int
	Status     string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload metadata: %s", e.Status)
}

// Client is a content-addressable metadata storage client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a metadata storage client. An empty baseURL selects
// the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Upload submits the image and descriptive fields as a multipart form
// and returns the stored metadata URI.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	imageName := req.ImageName
	if imageName == "" {
		imageName = "token.png"
	}
	part, err := writer.CreateFormFile("file", imageName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(req.Image); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	fields := map[string]string{
		"name":        req.Name,
		"symbol":      req.Symbol,
		"description": req.Description,
		"twitter":     req.Twitter,
		"telegram":    req.Telegram,
		"website":     req.Website,
		"showName":    "true",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ipfs", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call metadata storage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &UploadError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.MetadataURI == "" {
		return nil, fmt.Errorf("metadata storage returned no URI")
	}

	return &result, nil
}
