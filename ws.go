/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Messages sent to clients
type ScoreboardMessage struct {
	Type string `json:"type"` // "scoreboard"
	HTML string `json:"html"`
}

type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// CheckOrigin is left unset so only same-origin pages may connect.
var upgrader = websocket.Upgrader{
	HandshakeTimeout: timeout,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

type wsClient struct {
	conn      *websocket.Conn
	send      chan any
	sessionID string
}

// serveWebsocket accepts actions as JSON and answers each one with the
// freshly rendered scoreboard on the same connection.
func serveWebsocket(cfg *Config, sp *Scorepad, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sessionID := getOrSetSessionID(w, r)

		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			logf(cfg, "SERVE: Websocket upgrade failed for %s: %v", realIP(r), err)

			return
		}

		logf(cfg, "SERVE: Websocket opened by %s", realIP(r))

		c := &wsClient{
			conn:      conn,
			send:      make(chan any, 8),
			sessionID: sessionID,
		}

		go c.writePump()
		c.readPump(r.Context(), cfg, sp, errs)
	}
}

func (c *wsClient) readPump(ctx context.Context, cfg *Config, sp *Scorepad, errs chan<- error) {
	defer func() {
		close(c.send)
		_ = c.conn.Close()
	}()

	for {
		var a Action
		if err := c.conn.ReadJSON(&a); err != nil {
			return
		}

		switch a.Type {
		case actionAddPlayer, actionDeletePlayer, actionSetScore, actionResetScores:
		default:
			// ignore unknown types
			continue
		}

		startTime := time.Now()

		board, err := sp.Apply(ctx, c.sessionID, a)
		if err != nil {
			errs <- err

			c.send <- ErrorMessage{
				Type:    "error",
				Message: "Der Punktestand konnte nicht gespeichert werden.",
			}

			continue
		}

		fragment, err := renderFragment(board)
		if err != nil {
			errs <- err

			continue
		}

		c.send <- ScoreboardMessage{
			Type: "scoreboard",
			HTML: string(fragment),
		}

		logf(cfg, "SERVE: Websocket %s in %s", a.Type, time.Since(startTime).Round(time.Microsecond))
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			// unblock readPump until it notices the closed connection
			_ = c.conn.Close()
			for range c.send {
			}

			return
		}
	}
}
