// Dominance Graph
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
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"

	"go-arena"
)

// Write a DOT graph to W with an edge from the winner to the loser of
// every decided game in RESULTS.
func genGraph(results <-chan *arena.Result, w io.Writer) error {
	var (
		seen = make(map[string]string)
		err  error
	)
	node := func(name string) (string, error) {
		if node, ok := seen[name]; ok {
			return node, nil
		}
		node := fmt.Sprintf("n%d", len(seen))
		seen[name] = node
		label := strings.ReplaceAll(name, `"`, `\"`)
		_, err = fmt.Fprintf(w, `%s [label="%s"];`, node, label)
		if err != nil {
			return "", err
		}
		return node, nil
	}

	_, err = fmt.Fprintf(w, `strict digraph dominance { ratio = compress ;`)
	if err != nil {
		return err
	}

	for res := range results {
		var win, loss string
		switch res.Winner {
		case "":
			continue
		case res.First:
			win, loss = res.First, res.Second
		default:
			win, loss = res.Second, res.First
		}

		t, err := node(loss)
		if err != nil {
			return err
		}
		f, err := node(win)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(w, f, "->", t, ";")
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(w, `}`)
	if err != nil {
		return err
	}

	return nil
}

// Render the dominance graph of RESULTS using dot(1), where OPTS are
// passed on to dot.
func DrawGraph(results <-chan *arena.Result, opts ...string) ([]byte, error) {
	cmd := exec.Command(`dot`, opts...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Println(err)
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Println(err)
		return nil, err
	}
	err = cmd.Start()
	if err != nil {
		log.Println(err)
		return nil, err
	}

	go func() {
		err := genGraph(results, stdin)
		if err != nil {
			log.Print(err)
		}
		err = stdin.Close()
		if err != nil {
			log.Print(err)
			return
		}
	}()

	out, err := io.ReadAll(stdout)
	if err := cmd.Wait(); err != nil {
		log.Println(err)
		return nil, err
	}
	return out, err
}
