package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dumu-tech/boomerang/internal/core"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultGraphURL is the Graph API version the client speaks
const DefaultGraphURL = "https://graph.facebook.com/v2.6"

// profileFields are requested on every user profile lookup
const profileFields = "first_name,last_name,profile_pic,locale,timezone,gender"

// Client handles Messenger Send/Graph API communication
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another Graph API root
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Messenger client for the page owning pageToken
func NewClient(pageToken string, opts ...Option) *Client {
	if pageToken == "" {
		panic("MESSENGER_PAGE_TOKEN is required but not set")
	}

	c := &Client{
		baseURL: DefaultGraphURL,
		token:   pageToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func recipientPayload(userID int64) ([]byte, error) {
	return sjson.SetBytes([]byte(`{}`), "recipient.id", strconv.FormatInt(userID, 10))
}

// Send posts msg to userID and returns the platform message id
func (c *Client) Send(ctx context.Context, userID int64, msg *core.Message) (string, error) {
	if msg == nil {
		return "", fmt.Errorf("send: nil message")
	}

	messageJSON, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}
	payload, err := recipientPayload(userID)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}
	payload, err = sjson.SetRawBytes(payload, "message", messageJSON)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/me/messages", nil, payload)
	if err != nil {
		return "", err
	}

	messageID := resp.Get("message_id")
	if !messageID.Exists() {
		return "", fmt.Errorf("messenger API: response has no message_id: %s", resp.Raw)
	}
	return messageID.String(), nil
}

// SendAction sends a typing indicator or read receipt. Unknown actions are
// rejected without a request.
func (c *Client) SendAction(ctx context.Context, userID int64, action core.SenderAction) error {
	if !action.Valid() {
		return &core.ValidationError{
			Field:  "sender_action",
			Reason: fmt.Sprintf("%q is not one of typing_on, typing_off, mark_seen", action),
		}
	}

	payload, err := recipientPayload(userID)
	if err != nil {
		return fmt.Errorf("failed to build payload: %w", err)
	}
	payload, err = sjson.SetBytes(payload, "sender_action", string(action))
	if err != nil {
		return fmt.Errorf("failed to build payload: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, "/me/messages", nil, payload)
	return err
}

// threadSettingRequests builds one request body per configured setting, in
// the order the settings are applied.
func threadSettingRequests(s core.ThreadSettings) ([][]byte, error) {
	var requests []interface{}

	if s.AccountLinkURL != "" {
		requests = append(requests, map[string]interface{}{
			"setting_type":        "account_linking",
			"account_linking_url": s.AccountLinkURL,
		})
	}
	if len(s.WhitelistedDomains) > 0 {
		requests = append(requests, map[string]interface{}{
			"setting_type":        "domain_whitelisting",
			"whitelisted_domains": s.WhitelistedDomains,
			"domain_action_type":  "add",
		})
	}
	if s.GetStartedPayload != "" {
		requests = append(requests, map[string]interface{}{
			"setting_type":    "call_to_actions",
			"thread_state":    "new_thread",
			"call_to_actions": []map[string]string{{"payload": s.GetStartedPayload}},
		})
	}
	if s.GreetingText != "" {
		requests = append(requests, map[string]interface{}{
			"setting_type": "greeting",
			"greeting":     map[string]string{"text": s.GreetingText},
		})
	}
	if len(s.MenuButtons) > 0 {
		requests = append(requests, map[string]interface{}{
			"setting_type":    "call_to_actions",
			"thread_state":    "existing_thread",
			"call_to_actions": s.MenuButtons,
		})
	}

	bodies := make([][]byte, 0, len(requests))
	for _, r := range requests {
		body, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal thread setting: %w", err)
		}
		bodies = append(bodies, body)
	}
	return bodies, nil
}

// SetThreadSettings applies each configured setting with its own request.
// The first failing request aborts the rest.
func (c *Client) SetThreadSettings(ctx context.Context, settings core.ThreadSettings) error {
	bodies, err := threadSettingRequests(settings)
	if err != nil {
		return err
	}

	for _, body := range bodies {
		if _, err := c.do(ctx, http.MethodPost, "/me/thread_settings", nil, body); err != nil {
			return fmt.Errorf("thread setting %s: %w", gjson.GetBytes(body, "setting_type").String(), err)
		}
	}
	return nil
}

// UserProfile looks up the public profile of userID. An empty response
// means the page is not allowed to read it.
func (c *Client) UserProfile(ctx context.Context, userID int64) (core.UserProfile, error) {
	query := url.Values{"fields": {profileFields}}
	resp, err := c.do(ctx, http.MethodGet, "/"+strconv.FormatInt(userID, 10), query, nil)
	if err != nil {
		return nil, err
	}

	profile := core.UserProfile{}
	if err := json.Unmarshal([]byte(resp.Raw), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(profile) == 0 {
		return nil, core.ErrProfilePermission
	}
	return profile, nil
}

// do performs one Graph API call and returns the parsed JSON response. An
// error object in the response is returned as *core.APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) (gjson.Result, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("access_token", c.token)
	endpoint := c.baseURL + path + "?" + query.Encode()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Messenger API request", "method", method, "path", path, "token", maskToken(c.token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if apiErr := gjson.GetBytes(raw, "error"); apiErr.IsObject() {
		e := &core.APIError{}
		if err := json.Unmarshal([]byte(apiErr.Raw), e); err != nil {
			return gjson.Result{}, fmt.Errorf("failed to decode API error: %w", err)
		}
		return gjson.Result{}, e
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("messenger API error: status %d, path: %s, body: %s",
			resp.StatusCode, path, string(raw))
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("messenger API: invalid JSON response: %s", string(raw))
	}

	return gjson.ParseBytes(raw), nil
}

// maskToken masks a token for logging (shows first 3 and last 3 chars)
func maskToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) <= 6 {
		return "***"
	}
	return token[:3] + "***" + token[len(token)-3:]
}
