// Game Model
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

package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go-arena"

	"github.com/pkg/errors"
)

// A Runner decides the outcome of a match between two competitors.
// A nil winner without an error denotes a tie.
type Runner interface {
	fmt.Stringer
	Run(ctx context.Context, a, b arena.Competitor) (arena.Competitor, error)
}

// A Game is a pairing that delegates the actual match to a runner
type Game struct {
	a, b arena.Competitor
	run  Runner

	lock   sync.Mutex
	over   bool
	winner arena.Competitor
	start  time.Time
	end    time.Time
	err    error
}

func (g *Game) String() string { return arena.Describe(g) }

func (g *Game) Players() (arena.Competitor, arena.Competitor) { return g.a, g.b }

// Let the runner decide the game.  A game that fails is still over,
// but has no winner.
func (g *Game) Play(ctx context.Context) error {
	g.lock.Lock()
	if g.over || !g.start.IsZero() {
		g.lock.Unlock()
		return errors.Errorf("Game %s has already been played", g)
	}
	g.start = time.Now()
	g.lock.Unlock()

	arena.Debug.Println("Running", g, "using", g.run)
	w, err := g.run.Run(ctx, g.a, g.b)
	if err == nil && w != nil && w.Name() != g.a.Name() && w.Name() != g.b.Name() {
		err = errors.Errorf("%s is not playing", w.Name())
	}

	g.lock.Lock()
	defer g.lock.Unlock()
	g.over = true
	g.end = time.Now()
	if err != nil {
		g.err = errors.Wrapf(err, "Game %s", g)
		return g.err
	}
	switch {
	case w == nil:
	case w.Name() == g.a.Name():
		g.winner = g.a
	default:
		g.winner = g.b
	}
	return nil
}

func (g *Game) Over() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.over
}

func (g *Game) Winner() arena.Competitor {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.winner
}

// Return the error the game failed with, if any
func (g *Game) Err() error {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.err
}

// Return how long a finished game took
func (g *Game) Duration() time.Duration {
	g.lock.Lock()
	defer g.lock.Unlock()
	if !g.over {
		return 0
	}
	return g.end.Sub(g.start)
}

func MakeGame(a, b arena.Competitor, r Runner) *Game {
	if a.Name() == b.Name() {
		panic(fmt.Sprintf("%s cannot play against itself", a.Name()))
	}
	return &Game{a: a, b: b, run: r}
}

// Return a pairing factory, where every game is played by R
func Factory(r Runner) func(a, b arena.Competitor) arena.Pairing {
	return func(a, b arena.Competitor) arena.Pairing {
		return MakeGame(a, b, r)
	}
}

// Check that NAME can be told apart from a tie in the output of a
// runner
func ValidName(name string) error {
	switch {
	case name == "":
		return errors.New("Empty competitor name")
	case name == "tie", name == "draw":
		return errors.Errorf("%q is reserved for ties", name)
	case strings.TrimSpace(name) != name, strings.ContainsAny(name, "\r\n"):
		return errors.Errorf("%q contains surrounding or line-breaking whitespace", name)
	}
	return nil
}

// Parse the outcome of a game from the last non-empty line of R.
// The line must either name one of the competitors, or be "tie" or
// "draw".
func decide(r io.Reader, a, b arena.Competitor) (arena.Competitor, error) {
	var last string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Failed to read outcome")
	}

	switch last {
	case a.Name():
		return a, nil
	case b.Name():
		return b, nil
	case "tie", "draw":
		return nil, nil
	case "":
		return nil, errors.New("No outcome was reported")
	default:
		return nil, errors.Errorf("Unknown outcome %q", last)
	}
}
