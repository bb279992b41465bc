// Web Server Management
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
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"go-arena"
	"go-arena/cmd"
)

// Web serves the state of a running tournament over HTTP, and
// forwards its progress to websocket clients.
type Web struct {
	db  cmd.Database
	hub *hub
	srv *http.Server

	lock sync.Mutex
	ctl  Controller
}

// Attach the tournament the interface displays and controls
func (s *Web) Attach(c Controller) {
	s.lock.Lock()
	s.ctl = c
	s.lock.Unlock()
}

func (s *Web) controller() Controller {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ctl
}

func (s *Web) Started(p arena.Pairing) {
	r := arena.MakeResult(p)
	s.hub.broadcast(&Event{Type: "started", Game: &r})
}

func (s *Web) Finished(p arena.Pairing) {
	r := arena.MakeResult(p)
	s.hub.broadcast(&Event{Type: "finished", Game: &r})
}

func (s *Web) Ranked(st arena.Status, ranking []arena.RankingEntry) {
	s.hub.broadcast(&Event{
		Type:      "ranked",
		Status:    st.String(),
		Standings: ranking,
	})
}

// Return the handler for all routes
func (s *Web) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.status)
	mux.HandleFunc("/cancel", s.cancel)
	mux.HandleFunc("/abort", s.abort)
	mux.HandleFunc("/tournaments", s.tournaments)
	mux.HandleFunc("/tournament/", s.tournament)
	mux.HandleFunc("/socket", s.upgrade)
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /")
	})
	mux.HandleFunc("/", s.index)
	return mux
}

func (s *Web) Start(st *cmd.State, conf *cmd.Conf) {
	s.db = st.Database

	log.Printf("Listening via HTTP on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Print(err)
	}
}

func (s *Web) Shutdown() {
	s.hub.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Print(err)
	}
}

func (*Web) String() string { return "Web Server" }

func MakeWeb(addr string) *Web {
	s := &Web{hub: makeHub()}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Create the web interface and register it, if enabled
func Register(st *cmd.State, conf *cmd.Conf) *Web {
	if !conf.Web.Enabled {
		return nil
	}

	s := MakeWeb(conf.Web.Addr())
	st.Register(s)
	return s
}
