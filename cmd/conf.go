// Configuration
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

package cmd

import (
	"flag"
	"io"
	"log"
	"net"
	"os"
	"runtime"
	"strconv"
	"time"

	"go-arena"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const defconf = "go-arena.toml"

func init() {
	def := &defaultConfig

	flag.StringVar(&def.Tournament.Name, "name", def.Tournament.Name,
		"Name of the tournament")
	flag.StringVar(&def.Tournament.Directory, "dir", def.Tournament.Directory,
		"Directory with one sub-directory per competitor")
	flag.StringVar(&def.Tournament.Result, "result", def.Tournament.Result,
		"File to write the final results to")
	flag.Int64Var(&def.Tournament.Seed, "seed", def.Tournament.Seed,
		"Seed for breaking ties in the ranking (0 for a random seed)")

	flag.StringVar(&def.Game.Runner, "runner", def.Game.Runner,
		"How to play games (random, process or docker)")
	flag.StringVar(&def.Game.Docker.Image, "image", def.Game.Docker.Image,
		"Docker image used to simulate games")

	flag.BoolVar(&def.Database.Enabled, "record", def.Database.Enabled,
		"Record results in the database")
	flag.StringVar(&def.Database.File, "db", def.Database.File,
		"File to use for the database")

	flag.BoolVar(&def.Web.Enabled, "web", def.Web.Enabled,
		"Enable the web interface")
	flag.UintVar(&def.Web.Port, "wwwport", def.Web.Port,
		"Port to use for the HTTP server")
	flag.StringVar(&def.Web.Host, "wwwhost", def.Web.Host,
		"Host to bind the HTTP server to")

	flag.BoolVar(&debug, "debug", debug, "Enable debug output")
	flag.BoolVar(&silent, "silent", silent, "Disable notices and errors")
	flag.BoolVar(&dump, "dump-config", dump, "Dump configuration to standard output")
	flag.StringVar(&cfile, "conf", cfile, "Path to configuration file")
}

type TournamentConf struct {
	Name        string        `toml:"name"`
	Competitors []string      `toml:"competitors"`
	Directory   string        `toml:"directory,omitempty"`
	Poll        time.Duration `toml:"poll"`
	Seed        int64         `toml:"seed"`
	Result      string        `toml:"result,omitempty"`
}

type RandomConf struct {
	Draw  float64       `toml:"draw"`
	Delay time.Duration `toml:"delay"`
}

type ProcessConf struct {
	Command []string `toml:"command"`
	Dir     string   `toml:"dir,omitempty"`
}

type DockerConf struct {
	Image  string `toml:"image"`
	CPUs   int64  `toml:"cpus"`
	Memory int64  `toml:"memory"`
}

type GameConf struct {
	Runner  string      `toml:"runner"`
	Random  RandomConf  `toml:"random"`
	Process ProcessConf `toml:"process"`
	Docker  DockerConf  `toml:"docker"`
}

type DatabaseConf struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
}

// The web interface can cancel and abort the tournament without any
// authentication, so it only listens on the loopback interface unless
// another host is configured.
type WebConf struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    uint   `toml:"port"`
}

// Return the address the HTTP server listens on
func (w *WebConf) Addr() string {
	return net.JoinHostPort(w.Host, strconv.FormatUint(uint64(w.Port), 10))
}

// Internal representation
type Conf struct {
	Tournament TournamentConf `toml:"tournament"`
	Game       GameConf       `toml:"game"`
	Database   DatabaseConf   `toml:"database"`
	Web        WebConf        `toml:"web"`
}

// Configuration object used by default
var defaultConfig = Conf{
	Tournament: TournamentConf{
		Name: "Round Robin",
		Poll: 3 * time.Second,
	},
	Game: GameConf{
		Runner: "random",
		Random: RandomConf{
			Draw:  0.1,
			Delay: 500 * time.Millisecond,
		},
		Docker: DockerConf{
			Image:  "arena-sim",
			CPUs:   int64(runtime.NumCPU()/4 + 1),
			Memory: 512 * 1024 * 1024,
		},
	},
	Database: DatabaseConf{
		File: "arena.db",
	},
	Web: WebConf{
		Host: "localhost",
		Port: 8080,
	},
}

var (
	debug  = false
	silent = false
	dump   = false
	cfile  = defconf
)

// Decode a configuration from R on top of the default configuration
func (c *Conf) Decode(r io.Reader) error {
	*c = defaultConfig
	_, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		*c = defaultConfig
		return errors.Wrap(err, "Invalid configuration")
	}
	return nil
}

// Load the configuration file given by the command line, falling
// back to the default configuration if the default file is missing.
func (c *Conf) Load() {
	file, err := os.Open(cfile)
	if err != nil {
		if !os.IsNotExist(err) || cfile != defconf {
			log.Fatal(err)
		}
		*c = defaultConfig
	} else {
		defer file.Close()
		err = c.Decode(file)
		if err != nil {
			log.Print(err)
		}
	}

	switch {
	case debug:
		arena.Debug.SetOutput(os.Stderr)
		log.Default().SetFlags(log.LstdFlags | log.Lshortfile)
		arena.Debug.Println("Debug logging has been enabled")
	case silent:
		log.Default().SetOutput(io.Discard)
	}

	// Dump the configuration onto the disk if requested
	if dump {
		err = c.Dump(os.Stdout)
		if err != nil {
			log.Fatalln("Failed to dump default configuration:", err)
		}
		os.Exit(0)
	}
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	return toml.NewEncoder(wr).Encode(c)
}
