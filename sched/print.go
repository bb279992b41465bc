// Standings Output
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
	"bufio"
	"fmt"
	"io"

	"go-arena"
)

const row = "%-15s %-10v %-5v %-10v %-5v\n"

// Print a plain-text standings table
func Print(w io.Writer, st arena.Status, ranking []arena.RankingEntry) error {
	bw := bufio.NewWriter(w)

	if st == arena.CANCELLED {
		fmt.Fprintln(bw, "Notice: Tournament was cancelled.")
	} else {
		fmt.Fprintf(bw, "Notice: Tournament is currently %s.\n", st)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Rankings:")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, row, "Username", "Points", "Wins", "Losses", "Ties")
	for _, r := range ranking {
		fmt.Fprintf(bw, row, r.Name, r.Points, r.Won, r.Lost, r.Tied)
	}

	return bw.Flush()
}

// Print the standings and the game log of T as a ms(7) document with
// tbl(1) tables, for further processing with groff.
func PrintTroff(w io.Writer, t *Tournament) error {
	var (
		bw      = bufio.NewWriter(w)
		ranking = t.Standings()
		results = t.Results()
	)

	fmt.Fprintln(bw, `.NH 1`)
	fmt.Fprintf(bw, "Tournament %q\n", t.String())
	fmt.Fprintln(bw, `.LP`)
	if len(results) == 0 {
		fmt.Fprintln(bw, `No games took place.`)
		return bw.Flush()
	}
	fmt.Fprintf(bw, "The tournament is %s, %d of %d games have been played.\n",
		t.Status(), len(results), t.Length())

	fmt.Fprintln(bw, `.NH 2`)
	fmt.Fprintln(bw, "Standings")

	fmt.Fprintln(bw, `.TS`)
	fmt.Fprintln(bw, `tab(/) box center;`)
	fmt.Fprintln(bw, `c | c | c c c c`)
	fmt.Fprintln(bw, `------`)
	fmt.Fprintln(bw, `n | l | n n n n`)
	fmt.Fprintln(bw, `.`)
	fmt.Fprintln(bw, `Nr./Username/Points/Wins/Losses/Ties`)
	for i, r := range ranking {
		fmt.Fprintf(bw, "%d/%s/%d/%d/%d/%d\n", i+1,
			r.Name, r.Points, r.Won, r.Lost, r.Tied)
	}
	fmt.Fprintln(bw, `.TE`)

	fmt.Fprintln(bw, `.NH 2`)
	fmt.Fprintln(bw, "Game Log")

	fmt.Fprintln(bw, `.TS H`)
	fmt.Fprintln(bw, `tab(/) box center;`)
	fmt.Fprintln(bw, `c | c c | c`)
	fmt.Fprintln(bw, `----`)
	fmt.Fprintln(bw, `n | l l | l`)
	fmt.Fprintln(bw, `.`)
	fmt.Fprintln(bw, `.TH`)
	fmt.Fprintln(bw, `Nr./First/Second/Winner`)
	for i, r := range results {
		winner := r.Winner
		if winner == "" {
			winner = "(tie)"
		}
		fmt.Fprintf(bw, "%d/%s/%s/%s\n", i+1, r.First, r.Second, winner)
	}
	fmt.Fprintln(bw, `.TE`)

	return bw.Flush()
}
