// Package quizapi is the client for the quiz content API: the REST surface
// used around the live game core to author quizzes and obtain the auth
// token that the game channel consumes.
package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/correctquiz/Correct-Quiz-project/pkg/quiz"
)

// API errors.
var (
	ErrNotFound     = errors.New("quizapi: not found")
	ErrUnauthorized = errors.New("quizapi: unauthorized")
)

// TokenProvider supplies the auth token attached to API requests and handed
// to the game channel on connect.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed token string.
type StaticToken string

// Token returns the static token.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Client talks to the quiz content API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTokenProvider sets the token provider used for authenticated calls.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) {
		c.tokens = tp
	}
}

// WithAPILogger sets the client's logger. Default: slog.Default().
func WithAPILogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a content API client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for an auth token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// GetQuizByID fetches one quiz with its questions.
func (c *Client) GetQuizByID(ctx context.Context, id uint) (*quiz.Quiz, error) {
	var out quiz.Quiz
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/quizzes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQuizzes fetches the caller's quizzes.
func (c *Client) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	var out []quiz.Quiz
	if err := c.do(ctx, http.MethodGet, "/api/quizzes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateQuiz creates a new quiz and returns it with server-assigned ids.
func (c *Client) CreateQuiz(ctx context.Context, q quiz.Quiz) (*quiz.Quiz, error) {
	var out quiz.Quiz
	if err := c.do(ctx, http.MethodPost, "/api/quizzes", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveQuiz replaces the stored quiz with the given one.
func (c *Client) SaveQuiz(ctx context.Context, id uint, q quiz.Quiz) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/quizzes/%d", id), q, nil)
}

// DeleteQuiz removes a quiz.
func (c *Client) DeleteQuiz(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/quizzes/%d", id), nil, nil)
}

// DeleteQuestion removes one question from a quiz.
func (c *Client) DeleteQuestion(ctx context.Context, quizID, questionID uint) error {
	return c.do(ctx, http.MethodDelete,
		fmt.Sprintf("/api/quizzes/%d/questions/%d", quizID, questionID), nil, nil)
}

// do performs one request, attaching the auth token when a provider is
// configured and decoding the response body into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("quizapi: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("quizapi: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("quizapi: obtain token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("quizapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s %s", ErrUnauthorized, method, path)
	case resp.StatusCode >= 400:
		return fmt.Errorf("quizapi: %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("quizapi: decode response: %w", err)
	}
	return nil
}
