package dgateway

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// GatewayConfig — подключение к Discord (conf/dgconfig.json).
type GatewayConfig struct {
	Token string `json:"token"`
	AppID string `json:"app_id"`
	// BaseURL переопределяется в тестах, в бою пустой.
	BaseURL string `json:"base_url,omitempty"`
}

type Client struct {
	token   string
	appID   string
	intents int

	conn   *websocket.Conn
	closed atomic.Bool

	// добавлено:
	wmu        sync.Mutex    // сериализует запись в websocket
	hbStop     chan struct{} // стоп-канал heartbeat-горутины
	hbInterval time.Duration
	lastSeq    atomic.Int64
	lastAck    atomic.Int64 // unix nanos последнего heartbeat ACK

	// сессия для resume после обрыва
	smu       sync.Mutex
	sessionID string
	resumeURL string
	me        User

	http    *http.Client
	baseURL string

	// "События" (колбэки-поля, как EventEmitter)
	OnConnecting     func()
	OnConnected      func()
	OnReady          func(User)
	OnInteraction    func(*Interaction)
	OnReactionAdd    func(*ReactionEvent)
	OnReactionRemove func(*ReactionEvent)
	OnDisconnected   func()
	OnError          func(error)
}

func New(cfg GatewayConfig, intents int) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://discord.com/api/v10"
	}
	return &Client{
		token:   cfg.Token,
		appID:   cfg.AppID,
		intents: intents,
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: base,
	}
}

// Connect — устанавливает WebSocket (hello → heartbeat → identify)
// и запускает readLoop. Контекст отменяется для мягкого выхода.
func (c *Client) Connect(ctx context.Context) error {
	if c.OnConnecting != nil {
		c.OnConnecting()
	}
	conn, err := c.dialAndSetup(false)
	if err != nil {
		return err
	}
	c.conn = conn
	c.closed.Store(false)

	if c.OnConnected != nil {
		c.OnConnected()
	}

	go c.readLoop(ctx)
	return nil
}

func (c *Client) Disconnect() {
	c.closed.Store(true)
	c.closeConn()
	if c.OnDisconnected != nil {
		c.OnDisconnected()
	}
}

func (c *Client) IsConnected() bool {
	return c.conn != nil && !c.closed.Load()
}

// Me возвращает учётку бота (известна после READY).
func (c *Client) Me() User {
	c.smu.Lock()
	defer c.smu.Unlock()
	return c.me
}

func (c *Client) emitError(err error) {
	if c.OnError != nil && !c.closed.Load() {
		c.OnError(err)
	}
}
