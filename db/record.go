// Recording Tournaments
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

package db

import (
	"context"
	"log"

	"go-arena"
	"go-arena/cmd"
)

// A Recorder stores the progress of a single tournament
type Recorder struct {
	db cmd.Database
	id int64
}

// Register a new tournament called NAME in DB
func MakeRecorder(ctx context.Context, db cmd.Database, name string) (*Recorder, error) {
	id, err := db.RegisterTournament(ctx, name)
	if err != nil {
		return nil, err
	}
	arena.Debug.Printf("Recording %q as tournament %d", name, id)
	return &Recorder{db: db, id: id}, nil
}

// Return the ID of the tournament in the database
func (r *Recorder) Id() int64 { return r.id }

func (r *Recorder) Started(arena.Pairing) {}

func (r *Recorder) Finished(p arena.Pairing) {
	if err := r.db.SaveResult(context.Background(), r.id, p); err != nil {
		log.Print(err)
	}
}

func (r *Recorder) Ranked(st arena.Status, ranking []arena.RankingEntry) {
	if err := r.db.SaveStandings(context.Background(), r.id, st, ranking); err != nil {
		log.Print(err)
	}
}
