package dgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		c.closed.Store(true)
		c.closeConn()
		if c.OnDisconnected != nil {
			c.OnDisconnected()
		}
	}()

	// закрыть по отмене контекста
	go func() {
		<-ctx.Done()
		c.closeConn()
	}()

	backoff := time.Second

	for {
		if c.conn == nil {
			// пойдём в реконнект ниже
			c.emitError(fmt.Errorf("connection is nil"))
		} else {
			var p payload
			err := c.conn.ReadJSON(&p)
			if err == nil {
				c.handlePayload(&p)
				backoff = time.Second
				continue
			}

			c.emitError(err)
			if c.closed.Load() {
				return
			}
		}

		c.closeConn()

		// реконнект с backoff; пробуем resume, Discord сам скажет
		// op 9, если сессия уже не жива
		for !c.closed.Load() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
				conn, derr := c.dialAndSetup(true)
				if derr != nil {
					c.emitError(fmt.Errorf("reconnect failed (wait %v): %w", backoff, derr))
					if backoff < 30*time.Second {
						backoff *= 2
						if backoff > 30*time.Second {
							backoff = 30 * time.Second
						}
					}
					continue
				}
				c.conn = conn
				if c.OnConnected != nil {
					c.OnConnected()
				}
				backoff = time.Second
				goto CONTINUE_READ
			}
		}
		return
	CONTINUE_READ:
		continue
	}
}

func (c *Client) handlePayload(p *payload) {
	if p.S != nil {
		c.lastSeq.Store(*p.S)
	}

	switch p.Op {
	case opDispatch:
		c.handleDispatch(p)

	case opHeartbeat:
		// шлюз попросил пульс вне расписания
		_ = c.send(c.conn, opHeartbeat, c.heartbeatSeq())

	case opHeartbeatACK:
		c.lastAck.Store(time.Now().UnixNano())

	case opReconnect:
		// сервер просит переподключиться; закрываемся — readLoop
		// сделает resume
		c.closeConn()

	case opInvalidSession:
		var resumable bool
		_ = json.Unmarshal(p.D, &resumable)
		if !resumable {
			c.clearSession()
		}
		c.closeConn()
	}
}

func (c *Client) handleDispatch(p *payload) {
	switch p.T {
	case "READY":
		var r readyData
		if err := json.Unmarshal(p.D, &r); err != nil {
			c.emitError(err)
			return
		}
		c.smu.Lock()
		c.sessionID = r.SessionID
		c.resumeURL = r.ResumeGatewayURL
		c.me = r.User
		c.smu.Unlock()
		if c.OnReady != nil {
			c.OnReady(r.User)
		}

	case "RESUMED":
		// пропущенные события уже доиграны шлюзом, делать нечего

	case "INTERACTION_CREATE":
		var i Interaction
		if err := json.Unmarshal(p.D, &i); err != nil {
			c.emitError(err)
			return
		}
		if c.OnInteraction != nil {
			// обработчик может ходить по сети (оплата), не держим readLoop
			go c.OnInteraction(&i)
		}

	case "MESSAGE_REACTION_ADD":
		c.dispatchReaction(p.D, c.OnReactionAdd)

	case "MESSAGE_REACTION_REMOVE":
		c.dispatchReaction(p.D, c.OnReactionRemove)
	}
}

func (c *Client) dispatchReaction(d json.RawMessage, cb func(*ReactionEvent)) {
	if cb == nil {
		return
	}
	var e ReactionEvent
	if err := json.Unmarshal(d, &e); err != nil {
		c.emitError(err)
		return
	}
	go cb(&e)
}
