package dgateway

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/gorilla/websocket"
)

// ========================= low-level =========================

// адрес шлюза: для resume Discord выдаёт отдельный URL в READY
func (c *Client) gatewayURL(resume bool) string {
	u := "wss://gateway.discord.gg"
	if resume {
		c.smu.Lock()
		if c.resumeURL != "" {
			u = c.resumeURL
		}
		c.smu.Unlock()
	}
	return u + "/?v=10&encoding=json"
}

// dial + рукопожатие: первым кадром шлюз шлёт hello с интервалом
// heartbeat, после него — identify (или resume) и запуск пульса.
func (c *Client) dialAndSetup(resume bool) (*websocket.Conn, error) {
	resume = resume && c.canResume()

	conn, _, err := websocket.DefaultDialer.Dial(c.gatewayURL(resume), nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(8 << 20)

	var p payload
	if err := conn.ReadJSON(&p); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if p.Op != opHello {
		_ = conn.Close()
		return nil, fmt.Errorf("expected hello, got op %d", p.Op)
	}
	var h helloData
	if err := json.Unmarshal(p.D, &h); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.hbInterval = time.Duration(h.HeartbeatInterval) * time.Millisecond

	if resume {
		err = c.sendResume(conn)
	} else {
		err = c.sendIdentify(conn)
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	c.lastAck.Store(time.Now().UnixNano())
	c.startHeartbeat(conn)
	return conn, nil
}

// запись строго через один мьютекс + write-deadline
func (c *Client) send(conn *websocket.Conn, op int, d any) error {
	if conn == nil {
		return fmt.Errorf("not connected")
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(payload{Op: op, D: raw})
}

func (c *Client) sendIdentify(conn *websocket.Conn) error {
	return c.send(conn, opIdentify, map[string]any{
		"token":   c.token,
		"intents": c.intents,
		"properties": map[string]string{
			"os":      runtime.GOOS,
			"browser": "multasbot",
			"device":  "multasbot",
		},
	})
}

func (c *Client) sendResume(conn *websocket.Conn) error {
	c.smu.Lock()
	sid := c.sessionID
	c.smu.Unlock()
	return c.send(conn, opResume, map[string]any{
		"token":      c.token,
		"session_id": sid,
		"seq":        c.lastSeq.Load(),
	})
}

func (c *Client) canResume() bool {
	c.smu.Lock()
	defer c.smu.Unlock()
	return c.sessionID != ""
}

func (c *Client) clearSession() {
	c.smu.Lock()
	c.sessionID = ""
	c.resumeURL = ""
	c.smu.Unlock()
	c.lastSeq.Store(0)
}

// d для heartbeat: последний seq либо null
func (c *Client) heartbeatSeq() any {
	if s := c.lastSeq.Load(); s > 0 {
		return s
	}
	return nil
}

func (c *Client) startHeartbeat(conn *websocket.Conn) {
	c.stopHeartbeat() // на всякий — останавливаем предыдущую
	c.hbStop = make(chan struct{})
	stop := c.hbStop
	interval := c.hbInterval

	go func() {
		// первый пульс — со случайным джиттером, как велит протокол
		t := time.NewTimer(time.Duration(rand.Float64() * float64(interval)))
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				// два интервала без ACK — соединение зомби, закрываем,
				// readLoop переподключится
				if time.Since(time.Unix(0, c.lastAck.Load())) > 2*interval {
					c.closeConn()
					return
				}
				if err := c.send(conn, opHeartbeat, c.heartbeatSeq()); err != nil {
					return
				}
				t.Reset(interval)
			}
		}
	}()
}

func (c *Client) stopHeartbeat() {
	if c.hbStop != nil {
		close(c.hbStop)
		c.hbStop = nil
	}
}

// безопасно закрыть текущее соединение
func (c *Client) closeConn() {
	c.stopHeartbeat()
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		_ = c.conn.Close()
		c.conn = nil
	}
}
