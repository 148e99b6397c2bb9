package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/adam0314/cards-against-humanity/internal/deck"
	"github.com/adam0314/cards-against-humanity/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	clock     quartz.Clock
	playerID  string
	sessionID string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, clock quartz.Clock, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		clock:  clock,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. It never blocks: a full
// send buffer closes the connection instead.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// channel closed during shutdown
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetIdentity associates this connection with a player in a session
func (c *Connection) SetIdentity(sessionID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
	c.playerID = playerID
}

// Player returns the associated player id
func (c *Connection) Player() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SessionID returns the associated session id
func (c *Connection) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client. Pings run on the
// injected clock so tests can drive keepalive time.
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage routes a client action into the joined session
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "player", c.Player())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse join data")
			return
		}
		c.handleJoin(data)

	case MessageTypeLeave:
		c.withSession(func(sess *game.Session, playerID string) {
			sess.Leave(playerID)
			c.SetIdentity("", "")
		})

	case MessageTypeStart:
		c.withSession(func(sess *game.Session, playerID string) {
			if err := sess.Start(); err != nil {
				c.sendError("start_failed", err.Error())
			}
		})

	case MessageTypeChooseCard:
		var data ChooseCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse choose card data")
			return
		}
		c.withSession(func(sess *game.Session, playerID string) {
			if err := sess.Submit(playerID, deck.Card{ID: data.CardID, Kind: deck.Response}); err != nil {
				c.sendError("choose_failed", err.Error())
			}
		})

	case MessageTypePickWinner:
		var data PickWinnerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse pick winner data")
			return
		}
		c.withSession(func(sess *game.Session, playerID string) {
			if err := sess.PickWinner(playerID, deck.Card{ID: data.CardID, Kind: deck.Response}); err != nil {
				if errors.Is(err, deck.ErrDeckExhausted) {
					// no recovery path: the session cannot deal another
					// round, tell the actor and leave it to the operator
					c.logger.Error("session out of cards", "session", sess.ID(), "error", err)
					c.sendError("deck_exhausted", "the session has run out of cards")
					return
				}
				c.sendError("pick_failed", err.Error())
			}
		})

	case MessageTypeRefresh:
		c.withSession(func(sess *game.Session, playerID string) {
			sess.RefreshClient(playerID)
		})

	default:
		c.sendError("unknown_message_type", "unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleJoin(data JoinData) {
	if data.PlayerID == "" || data.Name == "" {
		c.sendError("invalid_join", "player id and name required")
		return
	}

	sess, ok := c.server.Session(data.SessionID)
	if !ok {
		c.sendError("session_not_found", "no such session: "+data.SessionID)
		return
	}

	c.SetIdentity(data.SessionID, data.PlayerID)
	sess.Join(data.PlayerID, data.Name)
	c.logger.Info("player joined", "session", data.SessionID, "player", data.PlayerID, "name", data.Name)
}

// withSession runs fn against the connection's joined session
func (c *Connection) withSession(fn func(sess *game.Session, playerID string)) {
	playerID, sessionID := c.Player(), c.SessionID()
	if playerID == "" || sessionID == "" {
		c.sendError("not_joined", "join a session first")
		return
	}
	sess, ok := c.server.Session(sessionID)
	if !ok {
		c.sendError("session_not_found", "no such session: "+sessionID)
		return
	}
	fn(sess, playerID)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}
