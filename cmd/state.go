// Shared State
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

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go-arena"
)

type Manager interface {
	fmt.Stringer
	Start(*State, *Conf)
	Shutdown()
}

type Summary struct {
	Id      int64
	Name    string
	Status  arena.Status
	Created time.Time
}

type Database interface {
	Manager

	// Access interface
	QueryTournaments(context.Context, chan<- *Summary)
	QueryStandings(context.Context, int64) ([]arena.RankingEntry, error)
	QueryResults(context.Context, int64, chan<- *arena.Result)

	// Store interface
	RegisterTournament(context.Context, string) (int64, error)
	SaveResult(context.Context, int64, arena.Pairing) error
	SaveStandings(context.Context, int64, arena.Status, []arena.RankingEntry) error
}

type State struct {
	Context context.Context
	Kill    context.CancelFunc
	Running bool

	Database Database
	Managers []Manager
}

func MakeState() *State {
	ctx, kill := context.WithCancel(context.Background())
	return &State{
		Context: ctx,
		Kill:    kill,
	}
}

func (st *State) Register(m Manager) {
	if st.Running {
		panic(fmt.Sprintf("Late register: %#v", m))
	}

	if db, ok := m.(Database); ok {
		st.Database = db
	}

	st.Managers = append(st.Managers, m)
}

// Start all managers and block until a manager kills the state or an
// interrupt is caught.  The managers are then shut down in reverse
// order.  The return value is false if the shutdown was forced by a
// second interrupt.
func (st *State) Start(c *Conf) bool {
	// Start the service
	for _, m := range st.Managers {
		arena.Debug.Printf("Starting %s", m)
		go m.Start(st, c)
	}
	st.Running = true

	// Catch an interrupt request...
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	defer signal.Stop(intr)
	select {
	case <-intr:
		log.Println("Caught interrupt")
	case <-st.Context.Done():
		arena.Debug.Println("Requested shutdown")
	}

	done := make(chan struct{})
	go func() {
		// ...and request all managers to shut down.
		arena.Debug.Println("Waiting for managers to shutdown...")
		for i := len(st.Managers) - 1; i >= 0; i-- {
			m := st.Managers[i]
			arena.Debug.Printf("Shutting %s down", m)
			m.Shutdown()
		}
		close(done)
	}()

	select {
	case <-intr:
		log.Println("Forced shutdown")
		return false
	case <-done:
		arena.Debug.Println("Shutting down regularly")
		return true
	}
}
