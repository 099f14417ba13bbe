// Package roomprovider talks to the hosted video room service.
//
// Management calls are authorised with a short-lived HS256 management token
// signed with the account secret. Join tokens are signed locally in the same
// way and never require a network round-trip.
package roomprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenVersion       = 2
	managementTokenTTL = 5 * time.Minute
	defaultJoinRole    = "guest"
)

var ErrNotConfigured = errors.New("room provider credentials are not configured")

type Config struct {
	BaseURL   string
	AccessKey string
	Secret    string
	Timeout   time.Duration
	TokenTTL  time.Duration
	JoinRole  string
}

// RecordingStore lists stored recordings of one room.
type RecordingStore interface {
	List(ctx context.Context, roomID string) ([]domain.Recording, error)
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	recordings RecordingStore
	now        func() time.Time
}

var _ domain.RoomProvider = (*Client)(nil)

// New returns a client. recordings may be nil when no bucket is configured.
func New(cfg Config, httpClient *http.Client, recordings RecordingStore) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.JoinRole == "" {
		cfg.JoinRole = defaultJoinRole
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient, recordings: recordings, now: time.Now}
}

type managementClaims struct {
	AccessKey string `json:"access_key"`
	Type      string `json:"type"`
	Version   int    `json:"version"`
	jwt.RegisteredClaims
}

type appClaims struct {
	AccessKey string `json:"access_key"`
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Type      string `json:"type"`
	Version   int    `json:"version"`
	jwt.RegisteredClaims
}

func (c *Client) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := c.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (c *Client) sign(claims jwt.Claims) (string, error) {
	if c.cfg.AccessKey == "" || c.cfg.Secret == "" {
		return "", ErrNotConfigured
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.cfg.Secret))
}

func (c *Client) managementToken() (string, error) {
	return c.sign(managementClaims{
		AccessKey:        c.cfg.AccessKey,
		Type:             "management",
		Version:          tokenVersion,
		RegisteredClaims: c.registered(managementTokenTTL),
	})
}

// IssueAuthToken signs a join token for identity in roomID.
func (c *Client) IssueAuthToken(ctx context.Context, roomID, identity string) (string, error) {
	if roomID == "" || identity == "" {
		return "", fmt.Errorf("roomprovider: room id and identity are required")
	}
	return c.sign(appClaims{
		AccessKey:        c.cfg.AccessKey,
		RoomID:           roomID,
		UserID:           identity,
		Role:             c.cfg.JoinRole,
		Type:             "app",
		Version:          tokenVersion,
		RegisteredClaims: c.registered(c.cfg.TokenTTL),
	})
}

type roomRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Enabled     *bool  `json:"enabled,omitempty"`
}

type roomResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("room provider returned %d: %s", e.Status, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	token, err := c.managementToken()
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	// bounds every provider call, whatever http.Client the caller injected
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{Status: resp.StatusCode, Body: string(msg)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) CreateRoom(ctx context.Context, name, description string) (string, error) {
	var room roomResponse
	if err := c.do(ctx, http.MethodPost, "/rooms", roomRequest{Name: name, Description: description}, &room); err != nil {
		return "", err
	}
	if room.ID == "" {
		return "", fmt.Errorf("roomprovider: create room returned no id")
	}
	return room.ID, nil
}

func (c *Client) EnableRoom(ctx context.Context, roomID string, enabled bool) error {
	return c.do(ctx, http.MethodPost, "/rooms/"+roomID, roomRequest{Enabled: &enabled}, nil)
}

// ListRecordings returns nothing when no recording store is configured.
func (c *Client) ListRecordings(ctx context.Context, roomID string) ([]domain.Recording, error) {
	if c.recordings == nil {
		return []domain.Recording{}, nil
	}
	return c.recordings.List(ctx, roomID)
}
