// Database Tests
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

package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go-arena"
	"go-arena/cmd"

	"github.com/google/go-cmp/cmp"
)

type played struct {
	a, b, w arena.Competitor
}

func (p *played) Players() (arena.Competitor, arena.Competitor) { return p.a, p.b }
func (p *played) Play(context.Context) error                    { return nil }
func (p *played) Over() bool                                    { return true }
func (p *played) Winner() arena.Competitor                      { return p.w }
func (p *played) Duration() time.Duration                       { return time.Second }

func open(t *testing.T) cmd.Database {
	db, err := Open(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(db.Shutdown)
	return db
}

func TestResults(t *testing.T) {
	var (
		db  = open(t)
		ctx = context.Background()
		a   = arena.MakeCompetitor("a")
		b   = arena.MakeCompetitor("b")
		c   = arena.MakeCompetitor("c")
	)

	rec, err := MakeRecorder(ctx, db, "Test")
	if err != nil {
		t.Fatal(err)
	}
	other, err := MakeRecorder(ctx, db, "Other")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Id() == other.Id() {
		t.Fatalf("Both tournaments have the ID %d", rec.Id())
	}

	rec.Finished(&played{a: a, b: b, w: a})
	rec.Finished(&played{a: a, b: c})
	other.Finished(&played{a: b, b: c, w: c})
	rec.Finished(&played{a: b, b: c, w: c})

	results := make(chan *arena.Result)
	go db.QueryResults(ctx, rec.Id(), results)
	var got []arena.Result
	for r := range results {
		got = append(got, *r)
	}
	if diff := cmp.Diff([]arena.Result{
		{First: "a", Second: "b", Winner: "a"},
		{First: "a", Second: "c"},
		{First: "b", Second: "c", Winner: "c"},
	}, got); diff != "" {
		t.Errorf("Unexpected results (-want +got):\n%s", diff)
	}

	// A winner that is not playing is rejected
	err = db.SaveResult(ctx, rec.Id(), &played{a: a, b: b, w: c})
	if err == nil {
		t.Error("Saved a result with an invalid winner")
	}
}

func TestStandings(t *testing.T) {
	var (
		db  = open(t)
		ctx = context.Background()
	)

	rec, err := MakeRecorder(ctx, db, "Standings")
	if err != nil {
		t.Fatal(err)
	}

	first := []arena.RankingEntry{
		{Name: "x", Points: 0},
		{Name: "y", Points: 0},
	}
	final := []arena.RankingEntry{
		{Name: "y", Points: 3, Won: 1, Played: 1},
		{Name: "x", Points: 0, Lost: 1, Played: 1},
	}
	rec.Ranked(arena.RUNNING, first)
	rec.Ranked(arena.FINISHED, final)

	got, err := db.QueryStandings(ctx, rec.Id())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(final, got); diff != "" {
		t.Errorf("Unexpected standings (-want +got):\n%s", diff)
	}

	tourns := make(chan *cmd.Summary)
	go db.QueryTournaments(ctx, tourns)
	var sums []*cmd.Summary
	for s := range tourns {
		sums = append(sums, s)
	}
	if len(sums) != 1 {
		t.Fatalf("Expected one tournament, got %d", len(sums))
	}
	if s := sums[0]; s.Id != rec.Id() || s.Name != "Standings" || s.Status != arena.FINISHED {
		t.Errorf("Unexpected summary %+v", s)
	}
	if sums[0].Created.IsZero() {
		t.Error("Missing creation time")
	}
}
