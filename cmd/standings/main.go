// Stored Standings
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
	"log"
	"os"
	"text/tabwriter"
	"time"

	"go-arena"
	"go-arena/cmd"
	"go-arena/db"
	"go-arena/sched"
)

func main() {
	id := flag.Int64("id", 0, "Tournament to display (0 for the most recent)")
	list := flag.Bool("list", false, "List all recorded tournaments")
	games := flag.Bool("games", false, "Also list the results of every game")
	graph := flag.String("graph", "", "Render the dominance graph into an SVG file")

	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	var conf cmd.Conf
	conf.Load()

	d, err := db.Open(conf.Database.File)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c := make(chan *cmd.Summary)
	go d.QueryTournaments(ctx, c)
	var sums []*cmd.Summary
	for s := range c {
		sums = append(sums, s)
	}

	if *list {
		tw := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
		fmt.Fprintln(tw, "ID\tName\tStatus\tCreated")
		for _, s := range sums {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Id, s.Name, s.Status,
				s.Created.Format(time.RFC3339))
		}
		if err := tw.Flush(); err != nil {
			log.Fatal(err)
		}
		return
	}

	var sel *cmd.Summary
	for _, s := range sums {
		if *id == 0 || s.Id == *id {
			sel = s
			break
		}
	}
	if sel == nil {
		log.Fatal("No such tournament")
	}

	ranking, err := d.QueryStandings(ctx, sel.Id)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Tournament %q (%d)\n\n", sel.Name, sel.Id)
	if err := sched.Print(os.Stdout, sel.Status, ranking); err != nil {
		log.Fatal(err)
	}

	if *graph != "" {
		rc := make(chan *arena.Result)
		go d.QueryResults(ctx, sel.Id, rc)
		data, err := cmd.DrawGraph(rc, "-Tsvg")
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*graph, data, 0644); err != nil {
			log.Fatal(err)
		}
	}

	if !*games {
		return
	}
	rc := make(chan *arena.Result)
	go d.QueryResults(ctx, sel.Id, rc)
	fmt.Println()
	fmt.Println("Games:")
	fmt.Println()
	for r := range rc {
		switch r.Winner {
		case "":
			fmt.Printf("%s vs. %s: tie\n", r.First, r.Second)
		default:
			fmt.Printf("%s vs. %s: %s won\n", r.First, r.Second, r.Winner)
		}
	}
}
