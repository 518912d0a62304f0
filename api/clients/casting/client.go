// Package casting is a Go client for the casting agency API.
package casting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Movie struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

type Actor struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// MovieInput carries the fields to send on create or update. Nil fields are
// omitted so PATCH only touches what is set.
type MovieInput struct {
	Title       *string `json:"title,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`
}

type ActorInput struct {
	Name   *string `json:"name,omitempty"`
	Age    *int    `json:"age,omitempty"`
	Gender *string `json:"gender,omitempty"`
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("casting api: status %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by an *APIError, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
	RequestID  string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = client
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.Token = token
	}
}

func WithRequestID(id string) Option {
	return func(c *Client) {
		c.RequestID = id
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) ListMovies(ctx context.Context) ([]Movie, error) {
	var out struct {
		Movies []Movie `json:"movies"`
	}
	if err := c.do(ctx, http.MethodGet, "/movies", nil, &out); err != nil {
		return nil, err
	}
	return out.Movies, nil
}

func (c *Client) GetMovie(ctx context.Context, id uint) (Movie, error) {
	var out struct {
		Movie Movie `json:"movie"`
	}
	err := c.do(ctx, http.MethodGet, moviePath(id), nil, &out)
	return out.Movie, err
}

func (c *Client) CreateMovie(ctx context.Context, input MovieInput) (Movie, error) {
	var out struct {
		Movie Movie `json:"movie"`
	}
	err := c.do(ctx, http.MethodPost, "/movies", input, &out)
	return out.Movie, err
}

func (c *Client) UpdateMovie(ctx context.Context, id uint, input MovieInput) (Movie, error) {
	var out struct {
		Movie Movie `json:"movie"`
	}
	err := c.do(ctx, http.MethodPatch, moviePath(id), input, &out)
	return out.Movie, err
}

func (c *Client) DeleteMovie(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, moviePath(id), nil, nil)
}

func (c *Client) ListActors(ctx context.Context) ([]Actor, error) {
	var out struct {
		Actors []Actor `json:"actors"`
	}
	if err := c.do(ctx, http.MethodGet, "/actors", nil, &out); err != nil {
		return nil, err
	}
	return out.Actors, nil
}

func (c *Client) GetActor(ctx context.Context, id uint) (Actor, error) {
	var out struct {
		Actor Actor `json:"actor"`
	}
	err := c.do(ctx, http.MethodGet, actorPath(id), nil, &out)
	return out.Actor, err
}

func (c *Client) CreateActor(ctx context.Context, input ActorInput) (Actor, error) {
	var out struct {
		Actor Actor `json:"actor"`
	}
	err := c.do(ctx, http.MethodPost, "/actors", input, &out)
	return out.Actor, err
}

func (c *Client) UpdateActor(ctx context.Context, id uint, input ActorInput) (Actor, error) {
	var out struct {
		Actor Actor `json:"actor"`
	}
	err := c.do(ctx, http.MethodPatch, actorPath(id), input, &out)
	return out.Actor, err
}

func (c *Client) DeleteActor(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, actorPath(id), nil, nil)
}

func moviePath(id uint) string {
	return "/movies/" + strconv.FormatUint(uint64(id), 10)
}

func actorPath(id uint) string {
	return "/actors/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil {
		return errors.New("casting client is nil")
	}
	if c.BaseURL == "" {
		return errors.New("casting api base URL is required")
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.RequestID != "" {
		req.Header.Set("X-Request-ID", c.RequestID)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
