// Package slack is a minimal client for the handful of Slack Web API calls
// this service needs: posting and updating the ops-channel notification and
// resolving operator display names.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://slack.com/api"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Text is a Block Kit text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func Mrkdwn(text string) *Text { return &Text{Type: "mrkdwn", Text: text} }
func Plain(text string) *Text  { return &Text{Type: "plain_text", Text: text} }

// Button is a Block Kit button element carried inside an actions block.
type Button struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text"`
	ActionID string `json:"action_id"`
	Value    string `json:"value"`
	Style    string `json:"style,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Block is a loose Block Kit block; Elements holds *Text for context blocks
// and *Button for actions blocks.
type Block struct {
	Type     string        `json:"type"`
	Text     *Text         `json:"text,omitempty"`
	Fields   []*Text       `json:"fields,omitempty"`
	Elements []interface{} `json:"elements,omitempty"`
}

type apiResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`
	User    struct {
		Name    string `json:"name"`
		Profile struct {
			DisplayName string `json:"display_name"`
			RealName    string `json:"real_name"`
		} `json:"profile"`
	} `json:"user"`
}

func (c *Client) call(ctx context.Context, method string, body interface{}) (*apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/"+method, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("slack %s: %s", method, parsed.Error)
	}

	return &parsed, nil
}

// PostMessage posts a new message and returns its channel and ts so the
// caller can update it in place later.
func (c *Client) PostMessage(ctx context.Context, channel, fallbackText string, blocks []Block) (string, string, error) {
	resp, err := c.call(ctx, "chat.postMessage", map[string]interface{}{
		"channel": channel,
		"text":    fallbackText,
		"blocks":  blocks,
	})
	if err != nil {
		return "", "", err
	}
	return resp.Channel, resp.TS, nil
}

// UpdateMessage replaces a previously posted message in place.
func (c *Client) UpdateMessage(ctx context.Context, channel, ts, fallbackText string, blocks []Block) error {
	_, err := c.call(ctx, "chat.update", map[string]interface{}{
		"channel": channel,
		"ts":      ts,
		"text":    fallbackText,
		"blocks":  blocks,
	})
	return err
}

// PostResponse replaces the original interactive message through the
// response_url handed to us in the action payload.
func (c *Client) PostResponse(ctx context.Context, responseURL, fallbackText string, blocks []Block) error {
	payload, err := json.Marshal(map[string]interface{}{
		"replace_original": true,
		"text":             fallbackText,
		"blocks":           blocks,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("response_url returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

// UserNames returns the profile display name, real name and username for an
// operator id, in that preference order. users.info only accepts query args,
// not JSON.
func (c *Client) UserNames(ctx context.Context, userID string) (displayName, realName, username string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.BaseURL+"/users.info?user="+url.QueryEscape(userID), nil)
	if err != nil {
		return "", "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", "", "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", "", err
	}

	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", "", "", fmt.Errorf("decode users.info response: %w", err)
	}
	if !parsed.OK {
		return "", "", "", fmt.Errorf("slack users.info: %s", parsed.Error)
	}

	return parsed.User.Profile.DisplayName, parsed.User.Profile.RealName, parsed.User.Name, nil
}
