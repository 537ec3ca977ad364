package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

const (
	apiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	uploadBaseURL = "https://generativelanguage.googleapis.com/upload/v1beta"
)

// Client talks to the Gemini File Search and generateContent endpoints.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	uploadURL  string
	httpClient *http.Client
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		apiKey:    apiKey,
		model:     model,
		baseURL:   apiBaseURL,
		uploadURL: uploadBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) doJSON(ctx context.Context, method, url string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		payloadJson, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(payloadJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	if out != nil {
		return json.Unmarshal(resBody, out)
	}
	return nil
}

// ListStores enumerates every file search store visible to the API key.
func (c *Client) ListStores(ctx context.Context) ([]Store, error) {
	stores := make([]Store, 0)
	pageToken := ""
	for {
		url := c.baseURL + "/fileSearchStores"
		if pageToken != "" {
			url += "?pageToken=" + pageToken
		}
		var page listStoresResponse
		if err := c.doJSON(ctx, http.MethodGet, url, nil, &page); err != nil {
			return nil, err
		}
		stores = append(stores, page.FileSearchStores...)
		if page.NextPageToken == "" {
			return stores, nil
		}
		pageToken = page.NextPageToken
	}
}

// CreateStore creates a store with the given display name. The resource
// name is assigned by the API.
func (c *Client) CreateStore(ctx context.Context, displayName string) (Store, error) {
	var store Store
	err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/fileSearchStores", createStoreRequest{DisplayName: displayName}, &store)
	return store, err
}

// ListDocuments enumerates the documents of a store by resource name.
func (c *Client) ListDocuments(ctx context.Context, storeName string) ([]Document, error) {
	docs := make([]Document, 0)
	pageToken := ""
	for {
		url := fmt.Sprintf("%s/%s/documents", c.baseURL, storeName)
		if pageToken != "" {
			url += "?pageToken=" + pageToken
		}
		var page listDocumentsResponse
		if err := c.doJSON(ctx, http.MethodGet, url, nil, &page); err != nil {
			return nil, err
		}
		docs = append(docs, page.Documents...)
		if page.NextPageToken == "" {
			return docs, nil
		}
		pageToken = page.NextPageToken
	}
}

// UploadDocument submits file bytes into a store and returns the
// long-running operation tracking the index build. Uses the multipart
// media-upload protocol: one metadata part, one media part.
func (c *Client) UploadDocument(ctx context.Context, storeName, displayName string, data []byte) (Operation, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return Operation{}, err
	}
	meta := map[string]string{"displayName": displayName}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return Operation{}, err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", "application/octet-stream")
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return Operation{}, err
	}
	if _, err := mediaPart.Write(data); err != nil {
		return Operation{}, err
	}
	if err := writer.Close(); err != nil {
		return Operation{}, err
	}

	url := fmt.Sprintf("%s/%s:uploadToFileSearchStore", c.uploadURL, storeName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return Operation{}, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("X-Goog-Upload-Protocol", "multipart")
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Operation{}, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return Operation{}, err
	}
	if res.StatusCode != http.StatusOK {
		return Operation{}, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var op Operation
	if err := json.Unmarshal(resBody, &op); err != nil {
		return Operation{}, err
	}
	return op, nil
}

// GetOperation refreshes a long-running operation's status.
func (c *Client) GetOperation(ctx context.Context, opName string) (Operation, error) {
	var op Operation
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, opName), nil, &op)
	return op, err
}

// DeleteDocument removes a document by resource name. File search store
// documents refuse non-forced deletes, so force is mandatory for them.
func (c *Client) DeleteDocument(ctx context.Context, documentName string, force bool) error {
	u := fmt.Sprintf("%s/%s", c.baseURL, documentName)
	if force {
		u += "?force=" + url.QueryEscape("true")
	}
	return c.doJSON(ctx, http.MethodDelete, u, nil, nil)
}

// Generate answers a query grounded in the given store via the FileSearch
// tool and returns the model text verbatim.
func (c *Client) Generate(ctx context.Context, query, storeName string) (string, error) {
	payload := generateRequest{
		Contents: []*generateContent{
			{
				Parts: []*generatePart{{Text: query}},
				Role:  "user",
			},
		},
		Tools: []*generateTool{
			{
				FileSearch: &fileSearchTool{
					FileSearchStoreNames: []string{storeName},
				},
			},
		},
		GenerationConfig: &generationConfig{Temperature: 0.7},
	}

	var res generateResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	if err := c.doJSON(ctx, http.MethodPost, url, payload, &res); err != nil {
		return "", err
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}
