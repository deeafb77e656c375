package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/five82/ramyun/internal/session"
)

// Searcher fetches one page of catalog results for an encoded query.
type Searcher interface {
	Search(ctx context.Context, cred session.Credential, rawQuery string) (Page, error)
}

// Favorites creates and deletes the caller's favorite relationship to an item.
type Favorites interface {
	AddFavorite(ctx context.Context, cred session.Credential, itemID int64) error
	RemoveFavorite(ctx context.Context, cred session.Credential, itemID int64) error
}

// Ensure Client implements the collaborator interfaces at compile time.
var (
	_ Searcher  = (*Client)(nil)
	_ Favorites = (*Client)(nil)
)

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIURL         = "http://127.0.0.1:8080"
	defaultUserAgent      = "ramyun/0.1"
	defaultRequestTimeout = 5 * time.Second
)

// NewClient builds a Client for the given API base URL. A zero timeout uses
// the default of five seconds.
func NewClient(apiURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// Search retrieves one page of results. rawQuery is the encoded address; its
// parameter names are the search endpoint's parameter names.
func (c *Client) Search(ctx context.Context, cred session.Credential, rawQuery string) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/main/search", RawQuery: strings.TrimPrefix(rawQuery, "?")}
	var payload searchResponse
	if err := c.doURL(ctx, "search", http.MethodGet, rel, cred, nil, &payload); err != nil {
		return Page{}, err
	}
	return Page{
		Items:         payload.Data.Content,
		PageNumber:    payload.Data.Pageable.PageNumber,
		PageSize:      payload.Data.Pageable.PageSize,
		TotalPages:    payload.Data.TotalPages,
		TotalElements: payload.Data.TotalElements,
	}, nil
}

// FetchItem retrieves the detail record for one item. The endpoint is public;
// the credential is sent when present.
func (c *Client) FetchItem(ctx context.Context, cred session.Credential, itemID int64) (Item, error) {
	if c == nil {
		return Item{}, fmt.Errorf("client is nil")
	}
	if itemID <= 0 {
		return Item{}, fmt.Errorf("item id required")
	}
	rel := &url.URL{Path: "/main/ramyun/" + strconv.FormatInt(itemID, 10)}
	var payload itemResponse
	if err := c.doURL(ctx, "fetch item", http.MethodGet, rel, cred, nil, &payload); err != nil {
		return Item{}, err
	}
	return payload.Data.Ramyun, nil
}

// AddFavorite marks itemID as a favorite of the credential's identity.
func (c *Client) AddFavorite(ctx context.Context, cred session.Credential, itemID int64) error {
	return c.favorite(ctx, "add favorite", http.MethodPost, cred, itemID)
}

// RemoveFavorite removes itemID from the credential's favorites.
func (c *Client) RemoveFavorite(ctx context.Context, cred session.Credential, itemID int64) error {
	return c.favorite(ctx, "remove favorite", http.MethodDelete, cred, itemID)
}

func (c *Client) favorite(ctx context.Context, op, method string, cred session.Credential, itemID int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if cred.Anonymous() {
		return ErrAuthRequired
	}
	body, err := json.Marshal(favoriteRequest{ItemID: itemID})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	rel := &url.URL{Path: "/api/favorites"}
	return c.doURL(ctx, op, method, rel, cred, body, nil)
}

func (c *Client) doURL(ctx context.Context, op, method string, rel *url.URL, cred session.Credential, body []byte, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := cred.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrAuthRequired
	case resp.StatusCode >= 400:
		return &NetworkError{Op: op, Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
