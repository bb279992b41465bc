// WebSocket Feed
//
// Copyright (c) 2021, 2022, 2023  Philip Kaludercic
// Copyright (c) 2024  go-arena contributors
//
// This file is part of go-arena.
//
// go-arena is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-arena is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-arena. If not, see
// <http://www.gnu.org/licenses/>

package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"go-arena"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// A client only receives events.  Clients that cannot keep up are
// disconnected.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

type hub struct {
	lock    sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func makeHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

func (h *hub) add(c *client) bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *hub) remove(c *client) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *hub) broadcast(ev *Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Print(err)
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			arena.Debug.Println("Dropping slow client", c.conn.RemoteAddr())
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Disconnect every client and refuse new ones
func (h *hub) close() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Forward all queued messages to the client
func (c *client) write() {
	tick := time.NewTicker(pingPeriod)
	defer func() {
		tick.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				arena.Debug.Print(err)
				return
			}
		case <-tick.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Discard everything the client sends, until the connection closes
func (c *client) read(h *hub) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Upgrade a HTTP connection to a WebSocket and subscribe it to the
// tournament events
func (s *Web) upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		arena.Debug.Printf("Unable to upgrade connection: %s", err)
		return
	}
	log.Printf("New connection from %s", conn.RemoteAddr())

	c := &client{conn: conn, send: make(chan []byte, 64)}
	if ctl := s.controller(); ctl != nil {
		msg, err := json.Marshal(snapshot(ctl))
		if err == nil {
			c.send <- msg
		}
	}
	if !s.hub.add(c) {
		conn.Close()
		return
	}

	go c.write()
	go c.read(s.hub)
}
