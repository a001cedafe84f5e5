package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

const (
	defaultBaseURL = "https://i.instagram.com/api/v1"
	defaultTimeout = 30 * time.Second
)

// shortcodeAlphabet is the base-64 alphabet the platform uses to encode
// media IDs into URL shortcodes.
const shortcodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// Client talks to the Instagram private API. Session state (bearer token,
// user id, device id) is held in memory and persisted via DumpSettings.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    sessionState
}

type sessionState struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	DeviceID string `json:"device_id"`
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates an Instagram API client.
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.SocialClient = (*Client)(nil)

// APIError is an error payload returned by the platform.
type APIError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("instagram API error (status %d): %s", e.StatusCode, e.Message)
}

// Login performs a fresh credential login and stores the session token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if c.session.DeviceID == "" {
		c.session.DeviceID = fmt.Sprintf("android-%x", time.Now().UnixNano())
	}

	body, err := json.Marshal(loginRequest{
		Username: username,
		Password: password,
		DeviceID: c.session.DeviceID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/accounts/login/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out loginResponse
	if err := c.do(req, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return errors.New("login response missing session token")
	}

	c.session.Token = out.Token
	c.session.UserID = out.LoggedInUser.Pk
	c.session.Username = out.LoggedInUser.Username
	return nil
}

// LoadSettings restores session state from a file written by DumpSettings.
func (c *Client) LoadSettings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &c.session)
}

// DumpSettings persists the current session state.
func (c *Client) DumpSettings(path string) error {
	data, err := json.MarshalIndent(c.session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// GetTimelineFeed makes a lightweight authenticated call to verify the
// session is still live.
func (c *Client) GetTimelineFeed(ctx context.Context) error {
	if c.session.Token == "" {
		return errors.New("not logged in")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/feed/timeline/?count=1", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// MediaIDFromURL resolves a post URL to its media ID by decoding the
// shortcode segment. No network call is involved.
func (c *Client) MediaIDFromURL(ctx context.Context, postURL string) (string, error) {
	u, err := url.Parse(postURL)
	if err != nil {
		return "", fmt.Errorf("parsing post URL: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	var code string
	for i, p := range parts {
		if (p == "p" || p == "reel" || p == "tv") && i+1 < len(parts) {
			code = parts[i+1]
			break
		}
	}
	if code == "" {
		return "", fmt.Errorf("no media shortcode in URL %q", postURL)
	}

	var pk int64
	for _, r := range code {
		idx := strings.IndexRune(shortcodeAlphabet, r)
		if idx < 0 {
			return "", fmt.Errorf("invalid shortcode %q", code)
		}
		// Reject shortcodes whose decoded value would not fit in an int64.
		if pk > (math.MaxInt64-int64(idx))/64 {
			return "", fmt.Errorf("invalid shortcode %q", code)
		}
		pk = pk*64 + int64(idx)
	}
	return strconv.FormatInt(pk, 10), nil
}

// MediaInfo fetches a post's metadata.
func (c *Client) MediaInfo(ctx context.Context, mediaID string) (domain.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/media/%s/info/", c.baseURL, mediaID), nil)
	if err != nil {
		return domain.Post{}, fmt.Errorf("creating request: %w", err)
	}

	var out mediaInfoResponse
	if err := c.do(req, &out); err != nil {
		return domain.Post{}, err
	}
	if len(out.Items) == 0 {
		return domain.Post{}, fmt.Errorf("media %s not found", mediaID)
	}
	return out.Items[0].toDomain(), nil
}

// MediaComments fetches up to amount comments for a post.
func (c *Client) MediaComments(ctx context.Context, mediaID string, amount int) ([]domain.Comment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/media/%s/comments/?count=%d", c.baseURL, mediaID, amount), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var out commentsResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(out.Comments))
	for _, cm := range out.Comments {
		comments = append(comments, cm.toDomain(mediaID))
	}
	return comments, nil
}

// MediaComment posts a top-level comment on a post.
func (c *Client) MediaComment(ctx context.Context, mediaID, text string) (domain.Comment, error) {
	return c.postComment(ctx, mediaID, text, "")
}

// ReplyToComment posts a threaded reply to an existing comment.
func (c *Client) ReplyToComment(ctx context.Context, mediaID, commentID, text string) (domain.Comment, error) {
	return c.postComment(ctx, mediaID, text, commentID)
}

func (c *Client) postComment(ctx context.Context, mediaID, text, repliedToCommentID string) (domain.Comment, error) {
	body, err := json.Marshal(commentRequest{
		CommentText:        text,
		RepliedToCommentID: repliedToCommentID,
	})
	if err != nil {
		return domain.Comment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/media/%s/comment/", c.baseURL, mediaID), bytes.NewReader(body))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out commentResponse
	if err := c.do(req, &out); err != nil {
		return domain.Comment{}, err
	}
	return out.Comment.toDomain(mediaID), nil
}

// UserMedias fetches the account's most recent posts, newest first.
func (c *Client) UserMedias(ctx context.Context, username string, amount int) ([]domain.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/feed/user/%s/username/?count=%d", c.baseURL, url.PathEscape(username), amount), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var out userFeedResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(out.Items))
	for _, item := range out.Items {
		posts = append(posts, item.toDomain())
	}
	return posts, nil
}

// do executes an HTTP request and decodes the response.
func (c *Client) do(req *http.Request, out interface{}) error {
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
		}
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
