// Package apiclient is a typed HTTP client for the backend's REST API.
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/socialsimple/backend/internal/models"
)

const userAgent = "socialsimple-cli/0.1.0"

// Logger receives request/response debug lines. charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
}

// Client talks to one backend instance
type Client struct {
	http *resty.Client
}

// New creates a client for baseURL
func New(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Client{http: httpClient}
}

// WithLogger logs every request and response at debug level
func (c *Client) WithLogger(l Logger) *Client {
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		l.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})
	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		l.Debug("HTTP Response", "status", resp.StatusCode(), "request_id", resp.Header().Get("X-Request-ID"))
		return nil
	})
	return c
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	if token == "" {
		c.http.Header.Del("Authorization")
		return
	}
	c.http.SetAuthToken(token)
}

// Token is the login response
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Post is an uploaded post as returned by /upload
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Caption   string    `json:"caption"`
	URL       string    `json:"url"`
	FileType  string    `json:"file_type"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
}

type feedResponse struct {
	Posts []models.PostView `json:"posts"`
}

// Register creates an account
func (c *Client) Register(email, password string) (*models.UserRead, error) {
	var user models.UserRead
	resp, err := c.http.R().
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&user).
		Post("/auth/register")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The token is not stored on the client.
func (c *Client) Login(email, password string) (*Token, error) {
	var token Token
	resp, err := c.http.R().
		SetFormData(map[string]string{"username": email, "password": password}).
		SetResult(&token).
		Post("/auth/jwt/login")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &token, nil
}

// Logout revokes the current token
func (c *Client) Logout() error {
	resp, err := c.http.R().Post("/auth/jwt/logout")
	return CheckResponse(resp, err)
}

// ForgotPassword asks the server to mail a reset token
func (c *Client) ForgotPassword(email string) error {
	resp, err := c.http.R().
		SetBody(map[string]string{"email": email}).
		Post("/auth/forgot-password")
	return CheckResponse(resp, err)
}

// ResetPassword sets a new password with a mailed token
func (c *Client) ResetPassword(token, password string) error {
	resp, err := c.http.R().
		SetBody(map[string]string{"token": token, "password": password}).
		Post("/auth/reset-password")
	return CheckResponse(resp, err)
}

// Me returns the current account
func (c *Client) Me() (*models.UserRead, error) {
	var user models.UserRead
	resp, err := c.http.R().SetResult(&user).Get("/users/me")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &user, nil
}

// Feed returns the global feed, newest first
func (c *Client) Feed() ([]models.PostView, error) {
	var feed feedResponse
	resp, err := c.http.R().SetResult(&feed).Get("/feed")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return feed.Posts, nil
}

// Upload sends a local file as a new post
func (c *Client) Upload(path, caption string) (*Post, error) {
	var post Post
	req := c.http.R().
		SetFile("file", path).
		SetResult(&post)
	if caption != "" {
		req.SetFormData(map[string]string{"caption": caption})
	}

	resp, err := req.Post("/upload")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes one of the caller's posts
func (c *Client) DeletePost(postID string) error {
	resp, err := c.http.R().
		SetPathParam("post_id", postID).
		Delete("/posts/{post_id}")
	return CheckResponse(resp, err)
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Detail     string `json:"detail"`
	Field      string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Detail)
}

// CheckResponse turns transport failures and non-2xx responses into errors
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsSuccess() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if jsonErr := json.Unmarshal(resp.Body(), apiErr); jsonErr != nil || apiErr.Detail == "" {
		apiErr.Detail = string(resp.Body())
	}
	return apiErr
}

// IsUnauthorized reports whether err is a 401 from the server
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
