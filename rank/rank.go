// Standings Ranking
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

// Package rank orders tournament participants by their results.
//
// Participants are compared by points (three for a win, one for a
// tie), then by the number of wins, then by the number of ties.  Any
// remaining tie is broken by a random draw, so the relative order of
// two participants with identical results may change from one call to
// the next.
package rank

import (
	"math/rand"
	"sort"
	"time"

	"go-arena"
)

// Sort the statistics STATS into a list of standings.  Random draws
// are taken from SRC, or from a time-seeded source if SRC is nil.
func Sort(stats map[string]arena.PlayerStats, src *rand.Rand) []arena.RankingEntry {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var (
		ranking = make([]arena.RankingEntry, 0, len(stats))
		draw    = make([]float64, 0, len(stats))
	)
	for name, s := range stats {
		ranking = append(ranking, arena.RankingEntry{
			Name:   name,
			Points: s.Points(),
			Won:    s.Won,
			Tied:   s.Tied,
			Lost:   s.Lost,
			Played: s.Played,
		})
		draw = append(draw, src.Float64())
	}

	sort.Sort(&standings{ranking, draw})
	return ranking
}

// Sort interface over the entries and their draws, so that both
// slices are permuted together.
type standings struct {
	e []arena.RankingEntry
	d []float64
}

func (s *standings) Len() int { return len(s.e) }

func (s *standings) Swap(i, j int) {
	s.e[i], s.e[j] = s.e[j], s.e[i]
	s.d[i], s.d[j] = s.d[j], s.d[i]
}

func (s *standings) Less(i, j int) bool {
	a, b := s.e[i], s.e[j]
	switch {
	case a.Points != b.Points:
		return a.Points > b.Points
	case a.Won != b.Won:
		return a.Won > b.Won
	case a.Tied != b.Tied:
		return a.Tied > b.Tied
	default:
		return s.d[i] > s.d[j]
	}
}
