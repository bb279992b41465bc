// Dominance Graph Tests
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
	"testing"

	"go-arena"
)

func TestGenGraph(t *testing.T) {
	c := make(chan *arena.Result, 4)
	c <- &arena.Result{First: "a", Second: "b", Winner: "a"}
	c <- &arena.Result{First: "a", Second: "c"}
	c <- &arena.Result{First: "b", Second: "c", Winner: "c"}
	c <- &arena.Result{First: "c", Second: `"d"`, Winner: "c"}
	close(c)

	var buf bytes.Buffer
	if err := genGraph(c, &buf); err != nil {
		t.Fatal(err)
	}

	want := `strict digraph dominance { ratio = compress ;` +
		`n0 [label="b"];n1 [label="a"];n1->n0;` +
		`n2 [label="c"];n2->n0;` +
		`n3 [label="\"d\""];n2->n3;}`
	if got := buf.String(); got != want {
		t.Errorf("Unexpected graph:\n%s\nexpected\n%s", got, want)
	}
}
