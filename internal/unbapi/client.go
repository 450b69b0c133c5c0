// Package unbapi — минимальный клиент HTTP API UnbelievaBoat:
// чтение баланса пользователя в гильдии и изменение cash с пометкой
// для аудит-лога экономики. Токен выдаётся в дашборде UnbelievaBoat
// и передаётся в Authorization как есть (без Bearer).
package unbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://unbelievaboat.com/api/v1"

// UNBConf — конфиг клиента (conf/unbconfig.json).
type UNBConf struct {
	Token string `json:"token"`
	// BaseURL переопределяется в тестах, в бою пустой.
	BaseURL string `json:"base_url,omitempty"`
}

type Client struct {
	http    *http.Client
	token   string
	baseURL string
}

// UserBalance — баланс пользователя в экономике гильдии.
type UserBalance struct {
	UserID string `json:"user_id"`
	Cash   int    `json:"cash"`
	Bank   int    `json:"bank"`
	Total  int    `json:"total"`
}

// Создает новый клиент UnbelievaBoat API (задаем все параметры)
func NewClient(token string) *Client {
	return NewClientFromConf(UNBConf{Token: token})
}

// Создает новый клиент UnbelievaBoat API (задаем через файл конфигурации)
func NewClientFromConf(conf UNBConf) *Client {
	base := conf.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		token:   conf.Token,
		baseURL: base,
	}
}

// GetUserBalance возвращает текущий баланс userID в гильдии guildID.
func (c *Client) GetUserBalance(ctx context.Context, guildID, userID string) (UserBalance, error) {
	var ub UserBalance

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/guilds/%s/users/%s", c.baseURL, guildID, userID), nil)
	if err != nil {
		return ub, err
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ub, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return ub, fmt.Errorf("unb api: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&ub); err != nil {
		return ub, err
	}
	return ub, nil
}

// EditUserBalance меняет cash на delta (отрицательное — списание).
// reason попадает в аудит-лог экономики.
func (c *Client) EditUserBalance(ctx context.Context, guildID, userID string, delta int, reason string) error {
	body, err := json.Marshal(map[string]any{
		"cash":   delta,
		"reason": reason,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		fmt.Sprintf("%s/guilds/%s/users/%s", c.baseURL, guildID, userID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("unb api: %s", resp.Status)
	}
	return nil
}
