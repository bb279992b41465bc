// Tournament Runner
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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/exec"
	"path"
	"time"

	"go-arena"
	"go-arena/cmd"
	"go-arena/db"
	"go-arena/game"
	"go-arena/sched"
	"go-arena/web"
)

// Collect the competitors from the configuration, or from the
// sub-directories of the competitor directory
func loadRoster(conf *cmd.Conf) (map[string]arena.Competitor, error) {
	roster := make(map[string]arena.Competitor)

	if dir := conf.Tournament.Directory; dir != "" {
		dent, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, ent := range dent {
			if !ent.IsDir() {
				continue
			}
			if err := game.ValidName(ent.Name()); err != nil {
				log.Printf("Ignoring competitor: %s", err)
				continue
			}
			roster[ent.Name()] = arena.MakeCompetitor(ent.Name())
		}
		if len(conf.Tournament.Competitors) > 0 {
			log.Print("Ignoring competitor list from configuration")
		}
		return roster, nil
	}

	for _, name := range conf.Tournament.Competitors {
		if err := game.ValidName(name); err != nil {
			log.Printf("Ignoring competitor: %s", err)
			continue
		}
		if _, ok := roster[name]; ok {
			log.Printf("Ignoring duplicate competitor %s", name)
			continue
		}
		roster[name] = arena.MakeCompetitor(name)
	}
	return roster, nil
}

// Prepare the runner that decides the games
func makeRunner(conf *cmd.Conf) (game.Runner, func()) {
	gc := &conf.Game
	switch gc.Runner {
	case "random":
		return game.MakeRandom(gc.Random.Draw, gc.Random.Delay, conf.Tournament.Seed), func() {}
	case "process":
		dir := gc.Process.Dir
		if dir == "" {
			dir = conf.Tournament.Directory
		}
		r, err := game.MakeProcess(gc.Process.Command, dir)
		if err != nil {
			log.Fatal(err)
		}
		return r, func() {}
	case "docker":
		d, err := game.MakeDocker(gc.Docker.Image, gc.Docker.CPUs, gc.Docker.Memory)
		if err != nil {
			log.Fatal(err)
		}

		// Check if the image can be used
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := d.Check(ctx); err != nil {
			log.Fatal(err)
		}
		return d, func() {
			if err := d.Close(); err != nil {
				log.Print(err)
			}
		}
	default:
		log.Fatalf("Unknown runner %q", gc.Runner)
	}
	panic("Unreachable")
}

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Create a state and load configuration
	var conf cmd.Conf
	st := cmd.MakeState()
	conf.Load()

	roster, err := loadRoster(&conf)
	if err != nil {
		log.Fatal(err)
	}
	runner, release := makeRunner(&conf)
	defer release()
	arena.Debug.Println("Playing games using", runner)

	opts := []sched.Option{
		sched.WithName(conf.Tournament.Name),
		sched.WithPoll(conf.Tournament.Poll),
	}
	if seed := conf.Tournament.Seed; seed != 0 {
		opts = append(opts, sched.WithRand(rand.New(rand.NewSource(seed))))
	}

	// Load components
	if conf.Database.Enabled {
		d := db.Register(st, &conf)
		rec, err := db.MakeRecorder(st.Context, d, conf.Tournament.Name)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Recording results as tournament %d", rec.Id())
		opts = append(opts, sched.WithObserver(rec))
	}
	w := web.Register(st, &conf)
	if w != nil {
		opts = append(opts, sched.WithObserver(w))
	}

	t := sched.MakeTournament(roster, game.Factory(runner), opts...)
	if w != nil {
		w.Attach(t)
	}
	st.Register(sched.Manage(t))

	// Prepare the result file
	var (
		proc *exec.Cmd
		out  io.WriteCloser
	)
	if res := conf.Tournament.Result; res != "" {
		arena.Debug.Println("Writing results to", res)
		file, err := os.Create(res)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		out = file

		var dev string
		switch path.Ext(res) {
		case ".pdf":
			dev = "-Tpdf"
		case ".ps":
			dev = "-Tps"
		case ".html":
			dev = "-Txhtml"
		case ".txt":
			dev = "-Tutf8"
		default:
			goto skip
		}
		arena.Debug.Println("Preparing groff with", dev)
		proc = exec.Command("groff", dev, "-ms", "-t")

		proc.Stdout = file
		out, err = proc.StdinPipe()
		if err != nil {
			log.Fatal(err)
		}
	}
skip:

	// Start the tournament
	if !st.Start(&conf) {
		t.Abort()
		t.Shutdown()
	}

	// Print results
	if out == nil {
		return
	}
	if proc != nil {
		if err := proc.Start(); err != nil {
			log.Fatal(err)
		}
	}
	if err := sched.PrintTroff(out, t); err != nil {
		log.Print(err)
	}
	if proc != nil {
		out.Close()
		if err := proc.Wait(); err != nil {
			log.Print(err)
		}
	}
}
