// Package objectstore uploads and deletes product images in a Supabase-style storage bucket.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-storefront/pkg/metrics"

	"go.uber.org/zap"
)

const cacheControl = "3600"

// StorageError is a non-2xx answer from the storage service.
type StorageError struct {
	StatusCode int
	Message    string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (status %d): %s", e.StatusCode, e.Message)
}

// Store is one public bucket. Objects are addressed by their public URL.
type Store struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

func New(baseURL, apiKey, bucket string, httpClient *http.Client, logger *zap.Logger) *Store {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		bucket:     bucket,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// PublicPrefix is the part of every public URL in front of the object path.
func (s *Store) PublicPrefix() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/", s.baseURL, s.bucket)
}

// PublicURL returns the public URL of the object at path.
func (s *Store) PublicURL(path string) string {
	return s.PublicPrefix() + url.PathEscape(path)
}

// Upload stores data as "<unix-ms>-<name>" and returns its public URL. Existing objects
// are never overwritten.
func (s *Store) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	path := fmt.Sprintf("%d-%s", s.now().UnixMilli(), name)
	urlStr := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, url.PathEscape(path))

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers := map[string]string{
		"Content-Type":  contentType,
		"Cache-Control": cacheControl,
	}

	if _, err := s.request(ctx, http.MethodPost, urlStr, data, headers); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return s.PublicURL(path), nil
}

// File is one upload in a batch.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadMany uploads files one after another. Failed uploads are logged and left out of
// the returned URLs.
func (s *Store) UploadMany(ctx context.Context, files []File) []string {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		u, err := s.Upload(ctx, f.Name, f.ContentType, f.Data)
		if err != nil {
			s.logger.Warn("image upload failed", zap.String("name", f.Name), zap.Error(err))
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

// Delete removes the objects behind publicURLs. URLs outside this bucket are ignored.
func (s *Store) Delete(ctx context.Context, publicURLs []string) error {
	paths := s.PathsOf(publicURLs)
	if len(paths) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	urlStr := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, s.bucket)
	headers := map[string]string{"Content-Type": "application/json"}
	if _, err := s.request(ctx, http.MethodDelete, urlStr, body, headers); err != nil {
		return fmt.Errorf("delete %d objects: %w", len(paths), err)
	}
	return nil
}

// PathsOf maps public URLs to object paths. URLs that do not carry the public marker or
// whose suffix does not decode are skipped.
func (s *Store) PathsOf(publicURLs []string) []string {
	marker := fmt.Sprintf("/storage/v1/object/public/%s/", s.bucket)

	var paths []string
	for _, u := range publicURLs {
		_, suffix, ok := strings.Cut(u, marker)
		if !ok || suffix == "" {
			continue
		}
		path, err := url.PathUnescape(suffix)
		if err != nil {
			s.logger.Warn("skipping undecodable image url", zap.String("url", u), zap.Error(err))
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func (s *Store) request(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordBackendRequest("storage", method, 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	metrics.RecordBackendRequest("storage", method, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, parseError(respBody, resp.StatusCode)
	}
	return respBody, nil
}

func parseError(body []byte, statusCode int) error {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			msg = errResp.Message
		} else if errResp.Error != "" {
			msg = errResp.Error
		}
	}
	return &StorageError{StatusCode: statusCode, Message: msg}
}
