// Standings Ranking Tests
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

package rank

import (
	"math/rand"
	"testing"

	"go-arena"

	"github.com/google/go-cmp/cmp"
)

func TestPoints(t *testing.T) {
	for i, test := range []struct {
		stats    arena.PlayerStats
		expected uint
	}{
		{arena.PlayerStats{}, 0},
		{arena.PlayerStats{Won: 2, Tied: 1, Played: 3}, 7},
		{arena.PlayerStats{Won: 0, Tied: 4, Lost: 1, Played: 5}, 4},
		{arena.PlayerStats{Won: 1, Lost: 9, Played: 10}, 3},
	} {
		if p := test.stats.Points(); p != test.expected {
			t.Errorf("[%d] Expected %d points, got %d", i, test.expected, p)
		}
	}
}

func TestSortEntries(t *testing.T) {
	stats := map[string]arena.PlayerStats{
		"a": {Won: 2, Tied: 1, Lost: 0, Played: 3},
	}
	got := Sort(stats, rand.New(rand.NewSource(1)))
	want := []arena.RankingEntry{
		{Name: "a", Points: 7, Won: 2, Tied: 1, Lost: 0, Played: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unexpected ranking (-want +got):\n%s", diff)
	}
}

func TestSortOrder(t *testing.T) {
	for i, test := range []struct {
		stats    map[string]arena.PlayerStats
		expected []string
	}{
		{
			// points decide first
			stats: map[string]arena.PlayerStats{
				"low":  {Won: 0, Tied: 1, Lost: 1, Played: 2},
				"high": {Won: 1, Tied: 1, Lost: 0, Played: 2},
				"mid":  {Won: 1, Tied: 0, Lost: 1, Played: 2},
			},
			expected: []string{"high", "mid", "low"},
		},
		{
			// equal points, more wins
			stats: map[string]arena.PlayerStats{
				"ties": {Won: 0, Tied: 3, Lost: 0, Played: 3},
				"wins": {Won: 1, Tied: 0, Lost: 2, Played: 3},
			},
			expected: []string{"wins", "ties"},
		},
		{
			// equal points and wins, more ties
			stats: map[string]arena.PlayerStats{
				"x": {Won: 1, Tied: 0, Lost: 0, Played: 1},
				"y": {Won: 1, Tied: 0, Lost: 3, Played: 4},
				"z": {Won: 0, Tied: 0, Lost: 0, Played: 0},
			},
			expected: nil, // x and y tie, checked below
		},
		{
			stats:    map[string]arena.PlayerStats{},
			expected: []string{},
		},
	} {
		ranking := Sort(test.stats, rand.New(rand.NewSource(int64(i))))
		if len(ranking) != len(test.stats) {
			t.Fatalf("[%d] Expected %d entries, got %d",
				i, len(test.stats), len(ranking))
		}
		if test.expected == nil {
			if ranking[2].Name != "z" {
				t.Errorf("[%d] Expected z to be last, got %s", i, ranking[2].Name)
			}
			continue
		}
		for j, name := range test.expected {
			if ranking[j].Name != name {
				t.Errorf("[%d] Expected %s at position %d, got %s",
					i, name, j+1, ranking[j].Name)
			}
		}
	}
}

func TestSortTieBreak(t *testing.T) {
	stats := map[string]arena.PlayerStats{
		"first":  {Won: 3, Played: 3},
		"twin-a": {Won: 1, Tied: 1, Lost: 1, Played: 3},
		"twin-b": {Won: 1, Tied: 1, Lost: 1, Played: 3},
		"last":   {Lost: 3, Played: 3},
	}

	// Identical results may end up in any order, but the rest of the
	// table must be stable across every draw.
	src := rand.New(rand.NewSource(42))
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		ranking := Sort(stats, src)
		if ranking[0].Name != "first" || ranking[3].Name != "last" {
			t.Fatalf("[%d] Unexpected ranking %v", i, ranking)
		}
		seen[ranking[1].Name] = true
	}
	if !seen["twin-a"] || !seen["twin-b"] {
		t.Errorf("Tie break never changed the order of equal entries: %v", seen)
	}
}

func TestSortNilSource(t *testing.T) {
	ranking := Sort(map[string]arena.PlayerStats{
		"b": {Lost: 1, Played: 1},
		"a": {Won: 1, Played: 1},
	}, nil)
	if ranking[0].Name != "a" || ranking[1].Name != "b" {
		t.Errorf("Unexpected ranking %v", ranking)
	}
}
