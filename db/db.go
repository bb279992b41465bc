// Database Management
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

package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"go-arena"
	"go-arena/cmd"
)

//go:embed *.sql
var sql_dir embed.FS

type db struct {
	// The database connections
	read  *sql.DB
	write *sql.DB

	// The SQL queries are embedded from the *.sql files in this
	// directory.  QUERIES are the commands handled by READ, and
	// COMMANDS are the queries handled by WRITE.
	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt

	shut chan struct{}
}

func (db *db) RegisterTournament(ctx context.Context, name string) (int64, error) {
	res, err := db.commands["insert-tournament"].ExecContext(ctx, name)
	if err != nil {
		return 0, errors.Wrapf(err, "Failed to register %q", name)
	}
	return res.LastInsertId()
}

func (db *db) SaveResult(ctx context.Context, tid int64, p arena.Pairing) error {
	a, b := p.Players()

	var winner sql.NullString
	if w := p.Winner(); w != nil {
		winner.String, winner.Valid = w.Name(), true
	}
	var failed bool
	if f, ok := p.(interface{ Err() error }); ok {
		failed = f.Err() != nil
	}
	var duration sql.NullInt64
	if d, ok := p.(interface{ Duration() time.Duration }); ok {
		duration.Int64, duration.Valid = d.Duration().Milliseconds(), true
	}

	_, err := db.commands["insert-result"].ExecContext(ctx,
		tid, a.Name(), b.Name(), winner, failed, duration)
	if err != nil {
		return errors.Wrapf(err, "Failed to save %s", arena.Describe(p))
	}
	return nil
}

func (db *db) SaveStandings(ctx context.Context, tid int64, st arena.Status, ranking []arena.RankingEntry) error {
	tx, err := db.write.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.Stmt(db.commands["update-tournament"]).ExecContext(ctx, st, tid)
	if err != nil {
		goto fail
	}
	_, err = tx.Stmt(db.commands["delete-standings"]).ExecContext(ctx, tid)
	if err != nil {
		goto fail
	}
	for i, r := range ranking {
		_, err = tx.Stmt(db.commands["insert-standing"]).ExecContext(ctx,
			tid, i+1, r.Name, r.Points, r.Won, r.Tied, r.Lost, r.Played)
		if err != nil {
			goto fail
		}
	}

	return tx.Commit()

fail:
	if err := tx.Rollback(); err != nil {
		log.Print(err)
	}
	return errors.Wrapf(err, "Failed to save standings of %d", tid)
}

func (db *db) QueryTournaments(ctx context.Context, c chan<- *cmd.Summary) {
	defer close(c)
	rows, err := db.queries["select-tournaments"].QueryContext(ctx)
	if err != nil {
		log.Print(err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var s cmd.Summary
		err = rows.Scan(&s.Id, &s.Name, &s.Status, &s.Created)
		if err != nil {
			log.Print(err)
			return
		}
		c <- &s
	}
	if err = rows.Err(); err != nil {
		log.Print(err)
	}
}

func (db *db) QueryStandings(ctx context.Context, tid int64) ([]arena.RankingEntry, error) {
	rows, err := db.queries["select-standings"].QueryContext(ctx, tid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranking []arena.RankingEntry
	for rows.Next() {
		var r arena.RankingEntry
		err = rows.Scan(&r.Name, &r.Points, &r.Won, &r.Tied, &r.Lost, &r.Played)
		if err != nil {
			return nil, err
		}
		ranking = append(ranking, r)
	}
	return ranking, rows.Err()
}

func (db *db) QueryResults(ctx context.Context, tid int64, c chan<- *arena.Result) {
	defer close(c)
	rows, err := db.queries["select-results"].QueryContext(ctx, tid)
	if err != nil {
		log.Print(err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r      arena.Result
			winner sql.NullString
		)
		err = rows.Scan(&r.First, &r.Second, &winner)
		if err != nil {
			log.Print(err)
			return
		}
		r.Winner = winner.String
		c <- &r
	}
	if err = rows.Err(); err != nil {
		log.Print(err)
	}
}

func (db *db) Start(st *cmd.State, conf *cmd.Conf) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGUSR1)
	defer signal.Stop(c)
	tick := time.NewTicker(24 * time.Hour)
	defer tick.Stop()

	for {
		var err error
		select {
		case <-c:
			// https://www.sqlite.org/lang_vacuum.html
			_, err = db.write.Exec("VACUUM;")
		case <-tick.C:
			// https://www.sqlite.org/pragma.html#pragma_optimize
			_, err = db.write.Exec("PRAGMA optimize;")
		case <-db.shut:
			return
		}
		if err != nil {
			log.Print(err)
		}
	}
}

func (db *db) Shutdown() {
	var err error

	close(db.shut)

	// https://www.sqlite.org/pragma.html#pragma_optimize
	_, err = db.write.Exec("PRAGMA optimize;")
	if err != nil {
		log.Print(err)
	}

	err = db.write.Close()
	if err != nil {
		log.Print(err)
	}

	err = db.read.Close()
	if err != nil {
		log.Print(err)
	}
}

func (*db) String() string { return "Database Manager" }

// Open the database in FILE and prepare all queries
func Open(file string) (cmd.Database, error) {
	read, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	db := &db{
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
		write:    write,
		read:     read,
		shut:     make(chan struct{}),
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_journal_mode
		"journal_mode = WAL",
		// https://www.sqlite.org/pragma.html#pragma_synchronous
		"synchronous = normal",
		// https://www.sqlite.org/pragma.html#pragma_temp_store
		"temp_store = memory",
		// https://www.sqlite.org/pragma.html#pragma_foreign_keys
		"foreign_keys = on",
	} {
		arena.Debug.Printf("Run PRAGMA %v", pragma)
		_, err = db.write.Exec("PRAGMA " + pragma + ";")
		if err != nil {
			return nil, errors.Wrap(err, pragma)
		}
	}

	entries, err := sql_dir.ReadDir(".")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		base := path.Base(entry.Name())
		data, err := fs.ReadFile(sql_dir, entry.Name())
		if err != nil {
			return nil, err
		}

		if strings.HasPrefix(base, "create-") || strings.HasPrefix(base, "run-") {
			_, err = db.write.Exec(string(data))
			arena.Debug.Printf("Executed query %v", base)
		} else {
			query := strings.TrimSuffix(base, ".sql")
			if strings.HasPrefix(query, "select-") {
				db.queries[query], err = db.read.Prepare(string(data))
				arena.Debug.Printf("Registered query %v", query)
			} else {
				db.commands[query], err = db.write.Prepare(string(data))
				arena.Debug.Printf("Registered command %v", query)
			}
		}
		if err != nil {
			return nil, errors.Wrap(err, entry.Name())
		}
	}

	if len(db.queries) == 0 {
		panic("No queries loaded")
	}

	return db, nil
}

// Initialise the database and database managers
func Register(st *cmd.State, conf *cmd.Conf) cmd.Database {
	db, err := Open(conf.Database.File)
	if err != nil {
		log.Fatal(err)
	}
	st.Register(db)
	return db
}
