// Web Interface
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
	"embed"
	"html/template"
	"time"

	"go-arena"
)

//go:embed *.tmpl
var html embed.FS

var (
	// Template manager
	tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(html, "*.tmpl"))

	// Custom template functions
	funcs = template.FuncMap{
		"inc": func(i int) int {
			return i + 1
		},
		"now": func() string {
			return time.Now().Format(time.RFC3339)
		},
		"outcome": func(r arena.Result) template.HTML {
			if r.Winner == "" {
				return `<span class="tie">Tie</span>`
			}
			return template.HTML(`<span class="won">` +
				template.HTMLEscapeString(r.Winner) + `</span> won`)
		},
	}
)

// The subset of a tournament the web interface can inspect and
// control
type Controller interface {
	String() string
	Status() arena.Status
	Standings() []arena.RankingEntry
	Results() []arena.Result
	Length() int
	Idle() []string
	Cancel() arena.Status
	Abort()
}

// A message sent to every websocket client
type Event struct {
	Type      string               `json:"type"`
	Status    string               `json:"status,omitempty"`
	Game      *arena.Result        `json:"game,omitempty"`
	Standings []arena.RankingEntry `json:"standings,omitempty"`
}

func snapshot(c Controller) *Event {
	return &Event{
		Type:      "ranked",
		Status:    c.Status().String(),
		Standings: c.Standings(),
	}
}
