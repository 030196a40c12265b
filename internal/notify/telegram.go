package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/config"
)

const maxTelegramErrorBody = 1 << 10

// TelegramSender posts messages through the Bot API sendMessage method.
type TelegramSender struct {
	httpClient *http.Client
	baseURL    string
	token      string
	chatID     string
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramSender validates the bot credentials.
func NewTelegramSender(cfg config.TelegramConfig, httpClient *http.Client) (*TelegramSender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("telegram bot token and chat id required")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &TelegramSender{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.BotToken),
		chatID:     strings.TrimSpace(cfg.ChatID),
	}, nil
}

func (t *TelegramSender) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(telegramMessage{ChatID: t.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("encode telegram message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// the URL embeds the bot token; keep it out of the error
		return fmt.Errorf("telegram sendMessage failed: %w", redactURL(err))
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxTelegramErrorBody))
	var decoded telegramResponse
	decodeErr := json.Unmarshal(body, &decoded)

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	if success && readErr != nil {
		return fmt.Errorf("read telegram response: %w", readErr)
	}
	if success && decodeErr != nil {
		return fmt.Errorf("decode telegram response: %w", decodeErr)
	}
	if !success || !decoded.OK {
		desc := decoded.Description
		if desc == "" {
			desc = strings.TrimSpace(string(body))
		}
		return fmt.Errorf("telegram sendMessage status %d: %s", resp.StatusCode, desc)
	}
	return nil
}

func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
