// Tournament State
//
// Copyright (c) 2022, 2023  Philip Kaludercic
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

package sched

import (
	"context"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"go-arena"
	"go-arena/rank"
)

// Default interval for AvailableWait
const POLL = 3 * time.Second

// A Factory creates the pairing between two competitors.  Every
// pairing it returns must be comparable, e.g. a pointer.
type Factory func(a, b arena.Competitor) arena.Pairing

// An Observer is notified about the progress of a tournament.  The
// methods are invoked by the scheduler, one at a time.
type Observer interface {
	Started(arena.Pairing)
	Finished(arena.Pairing)
	Ranked(arena.Status, []arena.RankingEntry)
}

type Option func(*Tournament)

// Use SRC to break ties when ranking competitors
func WithRand(src *rand.Rand) Option {
	return func(t *Tournament) { t.src = src }
}

func WithObserver(o Observer) Option {
	return func(t *Tournament) { t.obs = append(t.obs, o) }
}

// Set the interval AvailableWait checks the idle pool at
func WithPoll(d time.Duration) Option {
	return func(t *Tournament) {
		if d > 0 {
			t.poll = d
		}
	}
}

// Print standings to W instead of the standard output
func WithOutput(w io.Writer) Option {
	return func(t *Tournament) { t.out = w }
}

func WithName(name string) Option {
	return func(t *Tournament) { t.name = name }
}

// A Tournament is a complete round-robin tournament.
//
// Every field below LOCK is guarded by it, and all state is changed
// under LOCK.  Games are only launched and integrated by the goroutine
// executing Start, or after a cancellation by the goroutine draining
// running games.
type Tournament struct {
	name string
	src  *rand.Rand
	poll time.Duration
	out  io.Writer
	obs  []Observer

	// Completion notifications of running pairings
	done chan arena.Pairing
	// Wake up the scheduler after a cancellation
	wake chan struct{}
	// Context passed on to pairings, only cancelled by Abort
	ctx  context.Context
	kill context.CancelFunc
	// Pairings that have been launched, but not yet integrated
	wait sync.WaitGroup

	lock      sync.Mutex
	roster    map[string]arena.Competitor
	idle      map[string]struct{}
	pending   map[arena.Pairing]struct{}
	running   map[arena.Pairing]struct{}
	completed []arena.Pairing
	stats     map[string]arena.PlayerStats
	failed    int
	length    int
	cancelled bool
	started   bool
}

func wellFormed(roster map[string]arena.Competitor) bool {
	if roster == nil {
		return false
	}
	for name, c := range roster {
		if c == nil || c.Name() != name {
			return false
		}
	}
	return true
}

// Create a new round-robin tournament between the competitors in
// ROSTER, where MK creates the pairing for every two competitors.
//
// A roster with less than two competitors, or one that maps names to
// competitors with different names, results in a tournament that
// has already been cancelled.
func MakeTournament(roster map[string]arena.Competitor, mk Factory, opts ...Option) *Tournament {
	t := &Tournament{
		name:    "Round Robin",
		poll:    POLL,
		out:     os.Stdout,
		wake:    make(chan struct{}, 1),
		roster:  make(map[string]arena.Competitor),
		idle:    make(map[string]struct{}),
		pending: make(map[arena.Pairing]struct{}),
		running: make(map[arena.Pairing]struct{}),
		stats:   make(map[string]arena.PlayerStats),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.src == nil {
		t.src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	t.ctx, t.kill = context.WithCancel(context.Background())

	if len(roster) < 2 {
		log.Println("Error: cannot create tournament with not enough players.")
		t.cancelled = true
		return t
	}
	if !wellFormed(roster) {
		log.Println("Error: cannot create tournament from malformed roster.")
		t.cancelled = true
		return t
	}
	if mk == nil {
		panic("No pairing factory")
	}

	log.Println("Notice: Creating tournament...")
	for name, c := range roster {
		t.roster[name] = c
		t.idle[name] = struct{}{}
		t.stats[name] = arena.PlayerStats{}
	}
	for _, p := range Generate(t.roster, mk) {
		t.pending[p] = struct{}{}
	}
	t.length = len(t.pending)
	t.done = make(chan arena.Pairing, t.length)
	log.Println("Notice: Tournament created.")

	return t
}

func (t *Tournament) String() string { return t.name }

func (t *Tournament) status() arena.Status {
	switch {
	case t.cancelled:
		return arena.CANCELLED
	case len(t.completed) == t.length:
		return arena.FINISHED
	default:
		return arena.RUNNING
	}
}

// Return the current status of the tournament.  A cancelled
// tournament always reports CANCELLED.
func (t *Tournament) Status() arena.Status {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.status()
}

// Stop launching new games.  Cancelling a finished or cancelled
// tournament has no effect.  Games that are already running are not
// interrupted.  The status after the request is returned.
func (t *Tournament) Cancel() arena.Status {
	t.lock.Lock()
	defer t.lock.Unlock()

	switch st := t.status(); st {
	case arena.CANCELLED:
		log.Println("Notice: tournament already cancelled.")
		return st
	case arena.FINISHED:
		log.Println("Notice: tournament already finished.")
		return st
	}

	log.Println("Notice: cancelling tournament.")
	t.cancelled = true
	select {
	case t.wake <- struct{}{}:
	default:
	}
	return arena.CANCELLED
}

// Cancel the tournament and interrupt all running games.  Games are
// still expected to finish, but will usually do so immediately.
func (t *Tournament) Abort() {
	if t.Cancel() == arena.FINISHED {
		return
	}
	t.lock.Lock()
	n := len(t.running)
	t.lock.Unlock()
	if n > 0 {
		log.Printf("Notice: aborting %d running games.", n)
	}
	t.kill()
}

// Block until at least two competitors are idle, checking every
// poll interval.
func (t *Tournament) AvailableWait(ctx context.Context) error {
	tick := time.NewTicker(t.poll)
	defer tick.Stop()

	for {
		t.lock.Lock()
		n := len(t.idle)
		t.lock.Unlock()
		if n >= 2 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}

// Wait for all games that have been launched to finish and be
// recorded.
func (t *Tournament) Shutdown() {
	t.wait.Wait()
	arena.Debug.Println("Completed", t)
}

// Return a copy of the current statistics
func (t *Tournament) Stats() map[string]arena.PlayerStats {
	t.lock.Lock()
	defer t.lock.Unlock()

	stats := make(map[string]arena.PlayerStats, len(t.stats))
	for name, s := range t.stats {
		stats[name] = s
	}
	return stats
}

// Return the current ranking of all competitors
func (t *Tournament) Standings() []arena.RankingEntry {
	t.lock.Lock()
	defer t.lock.Unlock()
	return rank.Sort(t.stats, t.src)
}

// Return the results of all finished games, in the order they
// finished
func (t *Tournament) Results() []arena.Result {
	t.lock.Lock()
	defer t.lock.Unlock()

	res := make([]arena.Result, 0, len(t.completed))
	for _, p := range t.completed {
		res = append(res, arena.MakeResult(p))
	}
	return res
}

// Return the number of completed games that failed.  These are
// counted as ties.
func (t *Tournament) Failed() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.failed
}

// Return the total number of games
func (t *Tournament) Length() int {
	return t.length
}

// Return the names of all idle competitors in alphabetical order
func (t *Tournament) Idle() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	idle := make([]string, 0, len(t.idle))
	for name := range t.idle {
		idle = append(idle, name)
	}
	sort.Strings(idle)
	return idle
}
