// Game Tests
//
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
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-arena"
)

var (
	alice = arena.MakeCompetitor("alice")
	bob   = arena.MakeCompetitor("bob")
)

type fixed struct {
	winner arena.Competitor
	err    error
}

func (fixed) String() string { return "Fixed" }

func (f fixed) Run(context.Context, arena.Competitor, arena.Competitor) (arena.Competitor, error) {
	return f.winner, f.err
}

func TestDecide(t *testing.T) {
	for i, test := range []struct {
		output string
		winner arena.Competitor
		fail   bool
	}{
		{"alice\n", alice, false},
		{"thinking...\nbob\n", bob, false},
		{"bob\nalice", alice, false},
		{"  alice  \n\n\n", alice, false},
		{"tie\n", nil, false},
		{"draw\n", nil, false},
		{"", nil, true},
		{"\n\n", nil, true},
		{"carol\n", nil, true},
		{"alice\nnobody\n", nil, true},
	} {
		w, err := decide(strings.NewReader(test.output), alice, bob)
		if (err != nil) != test.fail {
			t.Errorf("[%d] Unexpected error %v", i, err)
			continue
		}
		if w != test.winner {
			t.Errorf("[%d] Expected %v to win, got %v", i, test.winner, w)
		}
	}
}

func TestValidName(t *testing.T) {
	for _, test := range []struct {
		name string
		ok   bool
	}{
		{"alice", true},
		{"tie-breaker", true},
		{"Draw", true},
		{"tie", false},
		{"draw", false},
		{"", false},
		{" alice", false},
		{"al\nice", false},
	} {
		if err := ValidName(test.name); (err == nil) != test.ok {
			t.Errorf("%q: unexpected result %v", test.name, err)
		}
	}
}

func TestPlay(t *testing.T) {
	for i, test := range []struct {
		runner Runner
		winner arena.Competitor
		fail   bool
	}{
		{fixed{winner: alice}, alice, false},
		{fixed{winner: arena.MakeCompetitor("bob")}, bob, false},
		{fixed{}, nil, false},
		{fixed{err: errors.New("crashed")}, nil, true},
		{fixed{winner: arena.MakeCompetitor("carol")}, nil, true},
	} {
		g := MakeGame(alice, bob, test.runner)
		if g.Over() {
			t.Errorf("[%d] Game is over before it was played", i)
		}

		err := g.Play(context.Background())
		if (err != nil) != test.fail {
			t.Errorf("[%d] Unexpected error %v", i, err)
		}
		if !g.Over() {
			t.Errorf("[%d] Game is not over after playing", i)
		}
		if w := g.Winner(); w != test.winner {
			t.Errorf("[%d] Expected %v to win, got %v", i, test.winner, w)
		}
		if (g.Err() != nil) != test.fail {
			t.Errorf("[%d] Unexpected recorded error %v", i, g.Err())
		}

		if err := g.Play(context.Background()); err == nil {
			t.Errorf("[%d] Game could be played twice", i)
		}
	}
}

func TestFactory(t *testing.T) {
	mk := Factory(fixed{})
	p := mk(alice, bob)
	a, b := p.Players()
	if a != alice || b != bob {
		t.Errorf("Unexpected players %v and %v", a, b)
	}

	defer func() {
		if recover() == nil {
			t.Error("A competitor could play against itself")
		}
	}()
	mk(alice, alice)
}

func TestRandom(t *testing.T) {
	ctx := context.Background()

	r := MakeRandom(1, 0, 1)
	for i := 0; i < 20; i++ {
		if w, err := r.Run(ctx, alice, bob); err != nil || w != nil {
			t.Fatalf("[%d] Expected a tie, got %v (%v)", i, w, err)
		}
	}

	r = MakeRandom(0, time.Millisecond, 1)
	seen := make(map[arena.Competitor]bool)
	for i := 0; i < 50; i++ {
		w, err := r.Run(ctx, alice, bob)
		if err != nil {
			t.Fatal(err)
		}
		if w != alice && w != bob {
			t.Fatalf("[%d] Unexpected winner %v", i, w)
		}
		seen[w] = true
	}
	if !seen[alice] || !seen[bob] {
		t.Errorf("Not every competitor could win: %v", seen)
	}
}

func TestRandomCancel(t *testing.T) {
	r := MakeRandom(0, time.Hour, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	g := MakeGame(alice, bob, r)
	if err := g.Play(ctx); err == nil {
		t.Error("Cancelled game did not fail")
	}
	if !g.Over() || g.Winner() != nil {
		t.Error("Cancelled game must be over without a winner")
	}
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	for i, test := range []struct {
		command []string
		winner  arena.Competitor
		fail    bool
	}{
		{[]string{"sh", "-c", `echo "$1"`, "sh"}, alice, false},
		{[]string{"sh", "-c", `echo round 1; echo "$2"`, "sh"}, bob, false},
		{[]string{"sh", "-c", "echo tie", "sh"}, nil, false},
		{[]string{"sh", "-c", "echo nobody", "sh"}, nil, true},
		{[]string{"sh", "-c", "exit 1", "sh"}, nil, true},
	} {
		p, err := MakeProcess(test.command, "")
		if err != nil {
			t.Fatal(err)
		}
		w, err := p.Run(ctx, alice, bob)
		if (err != nil) != test.fail {
			t.Errorf("[%d] Unexpected error %v", i, err)
			continue
		}
		if w != test.winner {
			t.Errorf("[%d] Expected %v to win, got %v", i, test.winner, w)
		}
	}

	if _, err := MakeProcess(nil, ""); err == nil {
		t.Error("Created a process runner without a command")
	}
}

func TestContainerName(t *testing.T) {
	for _, test := range []struct {
		image, name string
	}{
		{"arena-sim", "arena-sim-42"},
		{"repo/img:tag", "repo-img-tag-42"},
		{"registry.example.com:5000/org/sim:1.2", "registry.example.com-5000-org-sim-1.2-42"},
		{"img@sha256:abc", "img-sha256-abc-42"},
		{"_hidden", "hidden-42"},
		{"///", "arena-42"},
	} {
		if name := containerName(test.image, 42); name != test.name {
			t.Errorf("%s: expected %q, got %q", test.image, test.name, name)
		}
	}
}

func TestDocker(t *testing.T) {
	d, err := MakeDocker("arena-sim", 1, 0)
	if err != nil {
		t.Skip(err)
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := d.Check(ctx); err != nil {
		t.Skip(err)
	}

	w, err := d.Run(ctx, alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if w != nil && w != alice && w != bob {
		t.Errorf("Unexpected winner %v", w)
	}
}
