// Package chat implements the outbound chat-platform gateway over its
// REST API. Channel and role identifiers are opaque snowflake strings.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storebot/internal/pkg/config"
	"storebot/internal/pkg/errs"
	"storebot/internal/usecase/commands"
)

const (
	channelKindText = 0

	requestTimeout = 10 * time.Second
)

type Client struct {
	http *http.Client
	cfg  config.ChatConfig
}

func NewClient(cfg config.ChatConfig) *Client {
	return &Client{
		http: &http.Client{Timeout: requestTimeout},
		cfg:  cfg,
	}
}

type channelPayload struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

type channelResponse struct {
	ID string `json:"id"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embedImage struct {
	URL string `json:"url"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Image       *embedImage  `json:"image,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
}

type messagePayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds,omitempty"`
}

func (c *Client) CreateTicketChannel(ctx context.Context, buyerRef string, orderID int64) (string, error) {
	return c.createChannel(ctx, fmt.Sprintf("ticket-%d", orderID))
}

func (c *Client) CreateDeliveryChannel(ctx context.Context, buyerRef string, orderID int64) (string, error) {
	return c.createChannel(ctx, fmt.Sprintf("delivery-%d", orderID))
}

func (c *Client) createChannel(ctx context.Context, name string) (string, error) {
	body := channelPayload{Name: name, Type: channelKindText}

	var resp channelResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/guilds/%s/channels", c.cfg.GuildID), body, &resp)
	if err != nil {
		return "", errs.Wrap(err, "failed to create channel")
	}
	return resp.ID, nil
}

func (c *Client) SendMessage(ctx context.Context, channelID string, msg commands.Message) error {
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", channelID), toMessagePayload(msg), nil)
	if err != nil {
		return errs.Wrap(err, "failed to send message")
	}
	return nil
}

func (c *Client) SendToReviews(ctx context.Context, msg commands.Message) error {
	if c.cfg.ReviewsChannelID == "" {
		return nil
	}
	return c.SendMessage(ctx, c.cfg.ReviewsChannelID, msg)
}

func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/channels/%s", channelID), nil, nil)
	if err != nil {
		return errs.Wrap(err, "failed to delete channel")
	}
	return nil
}

func (c *Client) GrantClientRole(ctx context.Context, buyerRef string) error {
	if c.cfg.ClientRoleID == "" {
		return nil
	}
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", c.cfg.GuildID, buyerRef, c.cfg.ClientRoleID)
	err := c.do(ctx, http.MethodPut, path, nil, nil)
	if err != nil {
		return errs.Wrap(err, "failed to grant client role")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIBaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.cfg.BotToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func toMessagePayload(msg commands.Message) messagePayload {
	payload := messagePayload{Content: msg.Content}
	for _, e := range msg.Embeds {
		pe := embed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		if e.ImageURL != "" {
			pe.Image = &embedImage{URL: e.ImageURL}
		}
		for _, f := range e.Fields {
			pe.Fields = append(pe.Fields, embedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		payload.Embeds = append(payload.Embeds, pe)
	}
	return payload
}

var _ commands.ChatGateway = (*Client)(nil)
