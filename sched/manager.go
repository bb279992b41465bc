// Scheduler Management
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

package sched

import (
	"go-arena"
	"go-arena/cmd"
)

type manager struct {
	t    *Tournament
	done chan struct{}
}

func (m *manager) String() string { return "Scheduler for " + m.t.String() }

// Run the tournament and shut the state down once it is over
func (m *manager) Start(st *cmd.State, _ *cmd.Conf) {
	defer st.Kill()
	defer close(m.done)

	if m.t.Status() == arena.CANCELLED {
		return
	}
	m.t.Start()
}

// Stop launching games and wait for the running ones to finish
func (m *manager) Shutdown() {
	if m.t.Status() == arena.RUNNING {
		m.t.Cancel()
	}
	<-m.done
	m.t.Shutdown()
}

// Wrap T so that it can be registered with a state
func Manage(t *Tournament) cmd.Manager {
	return &manager{t: t, done: make(chan struct{})}
}
