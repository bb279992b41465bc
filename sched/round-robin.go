// Round Robin Tournament
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
	"fmt"
	"log"
	"sort"

	"go-arena"
)

// Prepare a game for every unordered pair of distinct competitors
func Generate(roster map[string]arena.Competitor, mk Factory) []arena.Pairing {
	names := make([]string, 0, len(roster))
	for name := range roster {
		names = append(names, name)
	}
	sort.Strings(names)

	games := make([]arena.Pairing, 0, len(names)*(len(names)-1)/2)
	for i, a := range names {
		for _, b := range names[i+1:] {
			games = append(games, mk(roster[a], roster[b]))
		}
	}
	return games
}

// Record the outcome of the finished game P in STATS
func update(stats map[string]arena.PlayerStats, p arena.Pairing) {
	if !p.Over() {
		panic(fmt.Sprintf("Game %s has not finished", arena.Describe(p)))
	}

	a, b := p.Players()
	sa, ok := stats[a.Name()]
	if !ok {
		panic(fmt.Sprintf("Unknown competitor %s", a.Name()))
	}
	sb, ok := stats[b.Name()]
	if !ok {
		panic(fmt.Sprintf("Unknown competitor %s", b.Name()))
	}

	sa.Played++
	sb.Played++
	switch w := p.Winner(); {
	case w == nil:
		sa.Tied++
		sb.Tied++
	case w.Name() == a.Name():
		sa.Won++
		sb.Lost++
	case w.Name() == b.Name():
		sb.Won++
		sa.Lost++
	default:
		panic(fmt.Sprintf("%s won %s", w.Name(), arena.Describe(p)))
	}

	stats[a.Name()] = sa
	stats[b.Name()] = sb
}

// Run the tournament until every game has been played or the
// tournament has been cancelled.  The standings are printed before
// and after the tournament.
func (t *Tournament) Start() {
	t.lock.Lock()
	if n := len(t.roster); n < 2 {
		t.lock.Unlock()
		log.Printf("Error: cannot start tournament with %d players.", n)
		return
	}
	if t.started {
		t.lock.Unlock()
		log.Println("Notice: tournament already started.")
		return
	}
	t.started = true
	t.lock.Unlock()

	log.Println("Notice: Starting tournament...")
	t.rankings()

	arena.Debug.Println("Starting scheduler", t, "with", t.length, "games")
	for t.Status() == arena.RUNNING {
		t.dispatch()

		// Nothing can change until a game finishes or someone
		// cancels the tournament.
		select {
		case p := <-t.done:
			t.finish(p)
		case <-t.wake:
		}
	}

	t.rankings()

	t.lock.Lock()
	n := len(t.running)
	t.lock.Unlock()
	if n > 0 {
		arena.Debug.Println("Waiting for", n, "cancelled games in the background")
		t.wait.Add(1)
		go t.drain()
	}
}

// Launch every pending game where both competitors are idle
func (t *Tournament) dispatch() {
	t.lock.Lock()
	if t.cancelled || len(t.idle) == 0 {
		t.lock.Unlock()
		return
	}

	queue := make([]arena.Pairing, 0, len(t.pending))
	for p := range t.pending {
		queue = append(queue, p)
	}

	var launch []arena.Pairing
	for _, p := range queue {
		a, b := p.Players()
		if _, ok := t.idle[a.Name()]; !ok {
			continue
		}
		if _, ok := t.idle[b.Name()]; !ok {
			continue
		}

		delete(t.pending, p)
		delete(t.idle, a.Name())
		delete(t.idle, b.Name())
		t.running[p] = struct{}{}
		launch = append(launch, p)
	}
	t.wait.Add(len(launch))
	t.lock.Unlock()

	for _, p := range launch {
		a, b := p.Players()
		log.Printf("Notice: Starting game between %s and %s.", a.Name(), b.Name())
		for _, o := range t.obs {
			o.Started(p)
		}
		go t.play(p)
	}
}

func (t *Tournament) play(p arena.Pairing) {
	err := p.Play(t.ctx)
	if err != nil {
		log.Printf("Game %s failed: %s", arena.Describe(p), err)
	}
	t.done <- p
}

// Integrate the result of the finished game P
func (t *Tournament) finish(p arena.Pairing) {
	defer t.wait.Done()

	func() {
		t.lock.Lock()
		defer t.lock.Unlock()

		if _, ok := t.running[p]; !ok {
			panic(fmt.Sprintf("Game %s is not running", arena.Describe(p)))
		}
		update(t.stats, p)
		if f, ok := p.(interface{ Err() error }); ok && f.Err() != nil {
			t.failed++
		}
		delete(t.running, p)
		t.completed = append(t.completed, p)

		a, b := p.Players()
		t.idle[a.Name()] = struct{}{}
		t.idle[b.Name()] = struct{}{}
	}()

	a, b := p.Players()
	log.Printf("Notice: Game between %s and %s finished.", a.Name(), b.Name())
	for _, o := range t.obs {
		o.Finished(p)
	}
}

// Record games that were still running when the scheduler stopped,
// and pass the updated standings on to all observers.
func (t *Tournament) drain() {
	defer t.wait.Done()
	for {
		t.lock.Lock()
		n := len(t.running)
		t.lock.Unlock()
		if n == 0 {
			break
		}
		t.finish(<-t.done)
	}
	t.notify()
	t.failures()
}

func (t *Tournament) notify() (arena.Status, []arena.RankingEntry) {
	t.lock.Lock()
	st := t.status()
	t.lock.Unlock()
	ranking := t.Standings()

	for _, o := range t.obs {
		o.Ranked(st, ranking)
	}
	return st, ranking
}

// Pass the current standings on to all observers and print them
func (t *Tournament) rankings() {
	st, ranking := t.notify()
	if err := Print(t.out, st, ranking); err != nil {
		log.Print(err)
	}
	t.failures()
}

func (t *Tournament) failures() {
	if n := t.Failed(); n > 0 {
		log.Printf("Notice: %d of %d games failed and were counted as ties.", n, t.length)
	}
}

// Create a tournament and run it, unless the roster was invalid
func Run(roster map[string]arena.Competitor, mk Factory, opts ...Option) *Tournament {
	t := MakeTournament(roster, mk, opts...)
	if t.Status() != arena.CANCELLED {
		t.Start()
	}
	return t
}
