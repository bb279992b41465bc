// Process-Based Games
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

package game

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go-arena"

	"github.com/pkg/errors"
)

// A Process runner executes an external command for every game.  The
// names of both competitors are appended to the command line, and the
// last line of the output names the winner.
type Process struct {
	command []string
	dir     string
}

func (p *Process) String() string {
	return "Process " + strings.Join(p.command, " ")
}

func (p *Process) Run(ctx context.Context, a, b arena.Competitor) (arena.Competitor, error) {
	args := append(append([]string{}, p.command[1:]...), a.Name(), b.Name())
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	cmd.Dir = p.dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = arena.Debug.Writer()

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(err, "Command %s failed", p.command[0])
	}
	return decide(&out, a, b)
}

func MakeProcess(command []string, dir string) (*Process, error) {
	if len(command) == 0 {
		return nil, errors.New("No command to run games with")
	}
	return &Process{command: command, dir: dir}, nil
}
