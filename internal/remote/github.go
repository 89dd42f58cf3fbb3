// Package remote pushes the canonical bookmarks file to a GitHub
// repository through the contents API and pulls it back.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjvi/bm/internal/config"
	"github.com/fjvi/bm/internal/model"
)

var (
	ErrNoRepo         = errors.New("remote.repo is not configured")
	ErrRemoteNotFound = errors.New("remote file not found")
)

// GitHub stores one file in a repository branch.
type GitHub struct {
	apiURL string
	repo   string
	path   string
	branch string
	client *http.Client
	log    logrus.FieldLogger
}

// New creates a GitHub remote. A nil client gets a 30 second timeout.
func New(cfg config.RemoteConfig, client *http.Client, log logrus.FieldLogger) *GitHub {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GitHub{
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		repo:   strings.Trim(cfg.Repo, "/"),
		path:   strings.Trim(cfg.Path, "/"),
		branch: cfg.Branch,
		client: client,
		log:    log,
	}
}

// contentsResponse is the subset of the contents API we read.
type contentsResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

// Upload creates or updates the file with data. Transport and API
// failures are returned as *model.NetworkError.
func (g *GitHub) Upload(ctx context.Context, data []byte, token string) error {
	if g.repo == "" {
		return ErrNoRepo
	}

	existing, err := g.get(ctx, token)
	if err != nil && !errors.Is(err, ErrRemoteNotFound) {
		return err
	}

	body := putRequest{
		Message: fmt.Sprintf("Update %s", g.path),
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  g.branch,
	}
	if existing != nil {
		body.SHA = existing.SHA
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := g.do(ctx, http.MethodPut, g.contentsURL(false), token, bytes.NewReader(payload))
	if err != nil {
		return &model.NetworkError{Op: "upload", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &model.NetworkError{Op: "upload", Err: statusError(resp)}
	}

	g.log.WithFields(logrus.Fields{
		"repo":    g.repo,
		"path":    g.path,
		"created": existing == nil,
	}).Info("uploaded bookmarks file")
	return nil
}

// Download fetches the file's content.
func (g *GitHub) Download(ctx context.Context, token string) ([]byte, error) {
	if g.repo == "" {
		return nil, ErrNoRepo
	}
	c, err := g.get(ctx, token)
	if err != nil {
		return nil, err
	}
	if c.Encoding != "" && c.Encoding != "base64" {
		return nil, &model.NetworkError{Op: "download", Err: fmt.Errorf("unsupported encoding %q", c.Encoding)}
	}
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(c.Content, "\n", ""))
	if err != nil {
		return nil, &model.NetworkError{Op: "download", Err: err}
	}
	return data, nil
}

func (g *GitHub) get(ctx context.Context, token string) (*contentsResponse, error) {
	resp, err := g.do(ctx, http.MethodGet, g.contentsURL(true), token, nil)
	if err != nil {
		return nil, &model.NetworkError{Op: "fetch", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &model.NetworkError{Op: "fetch", Err: ErrRemoteNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &model.NetworkError{Op: "fetch", Err: statusError(resp)}
	}

	var c contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return nil, &model.NetworkError{Op: "fetch", Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return &c, nil
}

func (g *GitHub) do(ctx context.Context, method, target, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return g.client.Do(req)
}

func (g *GitHub) contentsURL(withRef bool) string {
	segments := strings.Split(g.path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := fmt.Sprintf("%s/repos/%s/contents/%s", g.apiURL, g.repo, strings.Join(segments, "/"))
	if withRef && g.branch != "" {
		u += "?ref=" + url.QueryEscape(g.branch)
	}
	return u
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}
