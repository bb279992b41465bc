// State Tests
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

package cmd

import (
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	name string
	kill bool
	lock *sync.Mutex
	log  *[]string
}

func (r *recorder) String() string { return r.name }

func (r *recorder) note(what string) {
	r.lock.Lock()
	*r.log = append(*r.log, what+" "+r.name)
	r.lock.Unlock()
}

func (r *recorder) Start(st *State, _ *Conf) {
	r.note("start")
	if r.kill {
		st.Kill()
	}
}

func (r *recorder) Shutdown() { r.note("stop") }

func TestStartShutdown(t *testing.T) {
	var (
		lock sync.Mutex
		log  []string
		st   = MakeState()
	)
	st.Register(&recorder{name: "a", lock: &lock, log: &log})
	st.Register(&recorder{name: "b", lock: &lock, log: &log, kill: true})

	done := make(chan bool)
	go func() { done <- st.Start(&Conf{}) }()
	select {
	case ok := <-done:
		if !ok {
			t.Error("Regular shutdown reported as forced")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("State did not shut down")
	}

	lock.Lock()
	defer lock.Unlock()
	var stops []string
	for _, l := range log {
		if strings.HasPrefix(l, "stop ") {
			stops = append(stops, l)
		}
	}
	if len(stops) != 2 || stops[0] != "stop b" || stops[1] != "stop a" {
		t.Errorf("Managers were not shut down in reverse order: %v", log)
	}
}

func TestLateRegister(t *testing.T) {
	st := MakeState()
	st.Running = true
	defer func() {
		if recover() == nil {
			t.Error("Late registration did not panic")
		}
	}()
	st.Register(&recorder{name: "late"})
}
