// Configuration Tests
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
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	var conf Conf
	err := conf.Decode(strings.NewReader(`
[tournament]
name = "Spring Cup"
competitors = ["ant", "bee", "cat"]
seed = 7

[game]
runner = "process"

[game.process]
command = ["./judge", "--quiet"]

[web]
enabled = true
port = 9000
`))
	if err != nil {
		t.Fatal(err)
	}

	want := defaultConfig
	want.Tournament.Name = "Spring Cup"
	want.Tournament.Competitors = []string{"ant", "bee", "cat"}
	want.Tournament.Seed = 7
	want.Game.Runner = "process"
	want.Game.Process.Command = []string{"./judge", "--quiet"}
	want.Web.Enabled = true
	want.Web.Port = 9000
	if diff := cmp.Diff(want, conf); diff != "" {
		t.Errorf("Unexpected configuration (-want +got):\n%s", diff)
	}
}

func TestDecodeInvalid(t *testing.T) {
	var conf Conf
	conf.Web.Port = 1
	if err := conf.Decode(strings.NewReader(`[web`)); err == nil {
		t.Error("Invalid configuration was accepted")
	}
	if diff := cmp.Diff(defaultConfig, conf); diff != "" {
		t.Errorf("Invalid configuration was not reset (-want +got):\n%s", diff)
	}
}

func TestDumpDecode(t *testing.T) {
	conf := defaultConfig
	conf.Tournament.Poll = 250 * time.Millisecond
	conf.Database.Enabled = true
	conf.Tournament.Competitors = []string{"ant", "bee"}
	conf.Game.Process.Command = []string{"judge"}

	var buf bytes.Buffer
	if err := conf.Dump(&buf); err != nil {
		t.Fatal(err)
	}
	var got Conf
	if err := got.Decode(&buf); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(conf, got); diff != "" {
		t.Errorf("Dumped configuration changed (-want +got):\n%s", diff)
	}
}

func TestWebAddr(t *testing.T) {
	for _, test := range []struct {
		conf WebConf
		addr string
	}{
		{defaultConfig.Web, "localhost:8080"},
		{WebConf{Host: "", Port: 9000}, ":9000"},
		{WebConf{Host: "::1", Port: 80}, "[::1]:80"},
	} {
		if addr := test.conf.Addr(); addr != test.addr {
			t.Errorf("Expected %q, got %q", test.addr, addr)
		}
	}
}
