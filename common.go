// Common Interfaces and constants
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

package arena

import (
	"context"
	"fmt"
)

type Status uint8

const (
	// Possible tournament states
	RUNNING Status = iota
	FINISHED
	CANCELLED
)

func (s Status) String() string {
	switch s {
	case RUNNING:
		return "running"
	case FINISHED:
		return "finished"
	case CANCELLED:
		return "cancelled"
	default:
		panic(fmt.Sprintf("Illegal status: %d", s))
	}
}

// Parse the name of a status, as returned by String
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{RUNNING, FINISHED, CANCELLED} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// A Competitor is anything with a unique name that can be entered
// into a tournament.
type Competitor interface {
	Name() string
}

// A Pairing is a single match between two distinct competitors.
//
// Play blocks until the match has been decided.  Once Play returns,
// Over must report true, even if Play returned an error.  Winner is
// nil if the match ended in a tie.
type Pairing interface {
	Players() (Competitor, Competitor)
	Play(context.Context) error
	Over() bool
	Winner() Competitor
}

type named string

func (n named) Name() string   { return string(n) }
func (n named) String() string { return string(n) }

// Return a competitor that consists of nothing but its name
func MakeCompetitor(name string) Competitor {
	return named(name)
}

type PlayerStats struct {
	Won    uint `json:"won"`
	Tied   uint `json:"tied"`
	Lost   uint `json:"lost"`
	Played uint `json:"played"`
}

// Points awarded for STATS, three for a win and one for a tie.
func (s PlayerStats) Points() uint {
	return 3*s.Won + s.Tied
}

type RankingEntry struct {
	Name   string `json:"name"`
	Points uint   `json:"points"`
	Won    uint   `json:"won"`
	Tied   uint   `json:"tied"`
	Lost   uint   `json:"lost"`
	Played uint   `json:"played"`
}

// The outcome of a finished pairing
type Result struct {
	First  string `json:"first"`
	Second string `json:"second"`
	// Empty if the game was a tie
	Winner string `json:"winner,omitempty"`
}

// Summarise the finished pairing P
func MakeResult(p Pairing) Result {
	a, b := p.Players()
	r := Result{First: a.Name(), Second: b.Name()}
	if w := p.Winner(); w != nil {
		r.Winner = w.Name()
	}
	return r
}

// Describe a pairing as "A vs. B"
func Describe(p Pairing) string {
	a, b := p.Players()
	return fmt.Sprintf("%s vs. %s", a.Name(), b.Name())
}
