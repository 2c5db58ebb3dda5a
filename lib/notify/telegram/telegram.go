package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"albowatch-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const defaultBaseUrl = "https://api.telegram.org"

type Client struct {
	http    *resty.Client
	baseUrl string
	token   string
	chatId  string
}

type Options struct {
	BotToken string
	ChatId   string
	// overrides https://api.telegram.org, used in tests
	BaseUrl string
}

func NewClient(opts Options) *Client {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "notify/telegram")

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	return &Client{
		http:    client,
		baseUrl: baseUrl,
		token:   opts.BotToken,
		chatId:  opts.ChatId,
	}
}

type sendMessageResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts one Markdown-formatted message to the configured chat.
// link previews are suppressed since every message carries several
// document links.
func (c *Client) Send(ctx context.Context, text string) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id":                  c.chatId,
			"text":                     text,
			"parse_mode":               "Markdown",
			"disable_web_page_preview": "true",
		}).
		Post(fmt.Sprintf("%s/bot%s/sendMessage", c.baseUrl, c.token))
	if err != nil {
		return err
	}

	var body sendMessageResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		return fmt.Errorf("unexpected telegram response (status %d): %w", res.StatusCode(), err)
	}
	if !body.Ok {
		return fmt.Errorf("telegram api: %s", body.Description)
	}
	return nil
}
