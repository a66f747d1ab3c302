// Package gateway is the HTTP client for the stamp-rally event server.
// Every call is a single attempt; a non-2xx response is returned as a
// *StatusError so callers can surface the code to the visitor. Retry policy
// is deliberately absent.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Stamp is one collectible waypoint in the event catalog.
type Stamp struct {
	ID       string `json:"stampId"`
	Name     string `json:"stampName"`
	Location string `json:"stampLocation"`
	Desc     string `json:"stampDesc"`
}

// ClassInfo identifies one participating class.
type ClassInfo struct {
	ID string `json:"classId"`
}

// User is the login response body.
type User struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// StatusError reports a non-2xx response from the event server.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("event server returned status %d: %s", e.Status, e.Body)
}

// Client talks to the event server.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client for the given base URL with a 5-second timeout.
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

// FetchStampList retrieves the stamp catalog.
func (c *Client) FetchStampList(ctx context.Context) ([]Stamp, error) {
	var payload struct {
		StampList []Stamp `json:"stampList"`
	}
	if err := c.getJSON(ctx, "/src/api/stampList.json", &payload); err != nil {
		return nil, err
	}
	return payload.StampList, nil
}

// FetchClassList retrieves the participating classes.
func (c *Client) FetchClassList(ctx context.Context) ([]ClassInfo, error) {
	var payload struct {
		ClassList []ClassInfo `json:"classList"`
	}
	if err := c.getJSON(ctx, "/src/api/classList.json", &payload); err != nil {
		return nil, err
	}
	return payload.ClassList, nil
}

// Login registers the visitor under userName and returns the issued user.
func (c *Client) Login(ctx context.Context, userName string) (User, error) {
	body, err := json.Marshal(map[string]string{"user_name": userName})
	if err != nil {
		return User{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/login", bytes.NewReader(body))
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return User{}, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode login response: %w", err)
	}
	return user, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
