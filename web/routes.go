// Web Routes
//
// Copyright (c) 2021, 2022  Philip Kaludercic
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
	"encoding/json"
	"log"
	"net/http"
	"path"
	"strconv"
	"time"

	"go-arena"
	"go-arena/cmd"
)

const DB_TIMEOUT = 20 * time.Second // arbitrary choice

func reply(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		arena.Debug.Print(err)
	}
}

// Fetch the attached tournament or report that there is none
func (s *Web) require(w http.ResponseWriter) Controller {
	c := s.controller()
	if c == nil {
		http.Error(w, "No tournament is running", http.StatusServiceUnavailable)
	}
	return c
}

// Generate the index page
func (s *Web) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	c := s.require(w)
	if c == nil {
		return
	}

	w.Header().Add("Content-Type", "text/html")
	err := tmpl.ExecuteTemplate(w, "index.tmpl", struct {
		Name      string
		Status    arena.Status
		Length    int
		Idle      []string
		Standings []arena.RankingEntry
		Results   []arena.Result
	}{
		Name:      c.String(),
		Status:    c.Status(),
		Length:    c.Length(),
		Idle:      c.Idle(),
		Standings: c.Standings(),
		Results:   c.Results(),
	})
	if err != nil {
		log.Print(err)
	}
}

func (s *Web) status(w http.ResponseWriter, r *http.Request) {
	c := s.require(w)
	if c == nil {
		return
	}

	reply(w, http.StatusOK, struct {
		Name      string               `json:"name"`
		Status    string               `json:"status"`
		Games     int                  `json:"games"`
		Idle      []string             `json:"idle"`
		Standings []arena.RankingEntry `json:"standings"`
		Results   []arena.Result       `json:"results"`
	}{
		Name:      c.String(),
		Status:    c.Status().String(),
		Games:     c.Length(),
		Idle:      c.Idle(),
		Standings: c.Standings(),
		Results:   c.Results(),
	})
}

// Request the tournament to stop launching new games
func (s *Web) cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c := s.require(w)
	if c == nil {
		return
	}

	log.Printf("Cancellation requested by %s", r.RemoteAddr)
	st := c.Cancel()
	reply(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{st.String()})
}

// Cancel the tournament and interrupt all running games
func (s *Web) abort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c := s.require(w)
	if c == nil {
		return
	}

	log.Printf("Abort requested by %s", r.RemoteAddr)
	c.Abort()
	reply(w, http.StatusAccepted, struct {
		Status string `json:"status"`
	}{c.Status().String()})
}

// List all recorded tournaments
func (s *Web) tournaments(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "No database", http.StatusNotFound)
		return
	}

	bg := context.Background()
	ctx, cancel := context.WithTimeout(bg, DB_TIMEOUT)
	defer cancel()

	c := make(chan *cmd.Summary)
	go s.db.QueryTournaments(ctx, c)

	type summary struct {
		Id      int64     `json:"id"`
		Name    string    `json:"name"`
		Status  string    `json:"status"`
		Created time.Time `json:"created"`
	}
	list := []summary{}
	for t := range c {
		list = append(list, summary{t.Id, t.Name, t.Status.String(), t.Created})
	}
	reply(w, http.StatusOK, list)
}

// Show the standings and results of a recorded tournament
func (s *Web) tournament(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "No database", http.StatusNotFound)
		return
	}
	id, err := strconv.ParseInt(path.Base(r.URL.Path), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	bg := context.Background()
	ctx, cancel := context.WithTimeout(bg, DB_TIMEOUT)
	defer cancel()

	ranking, err := s.db.QueryStandings(ctx, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	c := make(chan *arena.Result)
	go s.db.QueryResults(ctx, id, c)
	results := []arena.Result{}
	for res := range c {
		results = append(results, *res)
	}

	if len(ranking) == 0 && len(results) == 0 {
		http.NotFound(w, r)
		return
	}
	reply(w, http.StatusOK, struct {
		Standings []arena.RankingEntry `json:"standings"`
		Results   []arena.Result       `json:"results"`
	}{ranking, results})
}
