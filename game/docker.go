// Docker-Based Games
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

package game

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go-arena"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/pkg/errors"
)

// A Docker runner simulates every game in a fresh container.  The
// names of both competitors are passed as the command, and the last
// line written to the standard output names the winner.
type Docker struct {
	image  string
	cpus   int64
	memory int64
	cont   *client.Client
}

func (d *Docker) String() string { return "Docker " + d.image }

// Check that the image the games are simulated in is available
func (d *Docker) Check(ctx context.Context) error {
	_, _, err := d.cont.ImageInspectWithRaw(ctx, d.image)
	if err != nil {
		return errors.Wrapf(err, "Image %s is not available", d.image)
	}
	return nil
}

func (d *Docker) Run(ctx context.Context, a, b arena.Competitor) (arena.Competitor, error) {
	// See https://docs.docker.com/engine/api/v1.41/#operation/ContainerCreate
	resp, err := d.cont.ContainerCreate(ctx, &container.Config{
		Image: d.image,
		Cmd:   []string{a.Name(), b.Name()},
	}, &container.HostConfig{
		Resources: container.Resources{
			NanoCPUs: d.cpus * 1e9,
			Memory:   d.memory,
		},
		NetworkMode:    "none",
		ReadonlyRootfs: true,
	}, nil, nil, containerName(d.image, time.Now().UnixNano()))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create container %s", d.image)
	}
	id := resp.ID
	defer func() {
		err := d.cont.ContainerRemove(context.Background(), id,
			types.ContainerRemoveOptions{Force: true})
		if err != nil {
			arena.Debug.Print(err)
		}
	}()

	if err := d.cont.ContainerStart(ctx, id, types.ContainerStartOptions{}); err != nil {
		return nil, errors.Wrapf(err, "Failed to start container %s", d.image)
	}

	okC, errC := d.cont.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	select {
	case <-ctx.Done():
		return nil, d.kill(ctx, id)
	case err := <-errC:
		if ctx.Err() != nil {
			return nil, d.kill(ctx, id)
		}
		return nil, errors.Wrapf(err, "Container %s signalled an error", d.image)
	case res := <-okC:
		if res.Error != nil {
			return nil, errors.Errorf("Container %s failed: %s", d.image, res.Error.Message)
		}
		if res.StatusCode != 0 {
			return nil, errors.Errorf("Container %s exited with %d", d.image, res.StatusCode)
		}
	}

	logs, err := d.cont.ContainerLogs(ctx, id, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read output of %s", d.image)
	}
	defer logs.Close()

	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, arena.Debug.Writer(), logs); err != nil {
		return nil, errors.Wrapf(err, "Failed to read output of %s", d.image)
	}
	return decide(&out, a, b)
}

// Derive a valid container name from IMAGE.  Docker only accepts
// names matching [a-zA-Z0-9][a-zA-Z0-9_.-]+, which excludes the
// slashes and colons of most image references.
func containerName(image string, n int64) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		case r == '_', r == '.', r == '-':
			return r
		}
		return '-'
	}, image)
	name = strings.TrimLeft(name, "_.-")
	if name == "" {
		name = "arena"
	}
	return fmt.Sprintf("%s-%d", name, n)
}

// Stop the container ID after CTX was cancelled
func (d *Docker) kill(ctx context.Context, id string) error {
	err := d.cont.ContainerKill(context.Background(), id, "SIGKILL")
	if err != nil {
		arena.Debug.Print(err)
	}
	return ctx.Err()
}

// Release the connection to the docker daemon
func (d *Docker) Close() error {
	return d.cont.Close()
}

// Connect to the docker daemon given by the environment
func MakeDocker(image string, cpus, memory int64) (*Docker, error) {
	cont, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to connect to docker")
	}
	if cpus <= 0 {
		cpus = 1
	}
	return &Docker{
		image:  image,
		cpus:   cpus,
		memory: memory,
		cont:   cont,
	}, nil
}
