package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// localContentFetcher reads files the transport adapter dropped into a
// shared directory, keyed by file id. The id is sanitized to its base name
// so a crafted reference cannot escape the directory.
type localContentFetcher struct {
	dir string
}

func NewLocalContentFetcher(dir string) ContentFetcher {
	return &localContentFetcher{dir: dir}
}

func (f *localContentFetcher) Fetch(ctx context.Context, fileId string) ([]byte, error) {
	name := filepath.Base(strings.TrimSpace(fileId))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file id %q", fileId)
	}
	return os.ReadFile(filepath.Join(f.dir, name))
}

// httpReplyPusher posts messages to the transport's push endpoint.
type httpReplyPusher struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

func NewHttpReplyPusher(endpoint, accessToken string) ReplyPusher {
	return &httpReplyPusher{
		endpoint:    endpoint,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *httpReplyPusher) Push(ctx context.Context, userId, text string) error {
	payload := map[string]string{
		"to":   userId,
		"text": text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.accessToken)
	}

	res, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("status error, got status %d. with response body %s", res.StatusCode, string(resBody))
	}
	return nil
}
