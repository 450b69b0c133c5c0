package dgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ========================= REST =========================
//
// Тот срез HTTP API, который нужен боту: регистрация слэш-команд,
// ответы на interaction, отправка сообщений и реакций.

func (c *Client) restDo(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord api: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// RegisterCommands перезаписывает весь набор глобальных слэш-команд
// приложения (bulk overwrite — надёжнее, чем добавлять по одной).
func (c *Client) RegisterCommands(ctx context.Context, cmds []ApplicationCommand) error {
	return c.restDo(ctx, http.MethodPut, "/applications/"+c.appID+"/commands", cmds, nil)
}

// RespondInteraction отвечает на interaction (окно — 3 секунды после события).
func (c *Client) RespondInteraction(ctx context.Context, i *Interaction, resp *InteractionResponse) error {
	return c.restDo(ctx, http.MethodPost, "/interactions/"+i.ID+"/"+i.Token+"/callback", resp, nil)
}

// OriginalResponse возвращает сообщение, созданное ответом на interaction —
// его id нужен, чтобы считать реакции-голоса.
func (c *Client) OriginalResponse(ctx context.Context, i *Interaction) (*Message, error) {
	var m Message
	err := c.restDo(ctx, http.MethodGet,
		"/webhooks/"+c.appID+"/"+i.Token+"/messages/@original", nil, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMessage отправляет сообщение в канал.
func (c *Client) CreateMessage(ctx context.Context, channelID string, p *MessagePayload) (*Message, error) {
	if p.Nonce == "" {
		p.Nonce = uuid.NewString()
	}
	var m Message
	if err := c.restDo(ctx, http.MethodPost, "/channels/"+channelID+"/messages", p, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateReaction ставит реакцию от имени бота (emoji — юникод как есть).
func (c *Client) CreateReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return c.restDo(ctx, http.MethodPut,
		"/channels/"+channelID+"/messages/"+messageID+"/reactions/"+url.PathEscape(emoji)+"/@me",
		nil, nil)
}
