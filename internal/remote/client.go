// Package remote talks to the remote profile document store over HTTP JSON.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/storage"
)

// ErrSync wraps every failure to reach or update the remote store.
var ErrSync = errors.New("remote: sync failed")

// ErrNotFound is returned when the remote has no document for an id.
var ErrNotFound = errors.New("remote: profile not found")

// Client is a REST client for {base}/users/{id} documents.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New creates a client from the remote config.
func New(cfg config.RemoteConfig) *Client {
	return &Client{
		base:  strings.TrimRight(cfg.URL, "/"),
		token: cfg.Token,
		http:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) userURL(id string) string {
	return c.base + "/users/" + url.PathEscape(id)
}

// PushProfile merges p into the remote document.
func (c *Client) PushProfile(ctx context.Context, p storage.Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: encode profile: %v", ErrSync, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.userURL(p.ID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSync, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// FetchProfile reads the remote document for id.
func (c *Client) FetchProfile(ctx context.Context, id string) (storage.Profile, error) {
	var p storage.Profile
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL(id), nil)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrSync, err)
	}

	resp, err := c.do(req)
	if err != nil {
		return p, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return p, fmt.Errorf("%w: decode profile: %v", ErrSync, err)
	}
	return p, nil
}

// do sends req and maps non-2xx statuses to errors.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSync, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s: %s %s", ErrSync, req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}
