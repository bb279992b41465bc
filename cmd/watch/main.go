// Tournament Feed Client
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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go-arena"
	"go-arena/cmd"
	"go-arena/sched"
	"go-arena/web"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8080/socket",
		"Address of the tournament feed")
	flag.Parse()

	var conf cmd.Conf
	conf.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")
	c.SetReadLimit(1 << 20)

	for {
		var ev web.Event
		err := wsjson.Read(ctx, c, &ev)
		switch {
		case err == nil:
		case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
			errors.Is(err, context.Canceled):
			return
		default:
			log.Fatal(err)
		}

		if ev.Game == nil && ev.Type != "ranked" {
			arena.Debug.Println("Ignoring event without a game:", ev.Type)
			continue
		}

		switch ev.Type {
		case "started":
			fmt.Printf("Started %s vs. %s\n", ev.Game.First, ev.Game.Second)
		case "finished":
			if ev.Game.Winner == "" {
				fmt.Printf("Finished %s vs. %s: tie\n", ev.Game.First, ev.Game.Second)
			} else {
				fmt.Printf("Finished %s vs. %s: %s won\n",
					ev.Game.First, ev.Game.Second, ev.Game.Winner)
			}
		case "ranked":
			st, err := arena.ParseStatus(ev.Status)
			if err != nil {
				log.Print(err)
				continue
			}
			fmt.Println()
			if err := sched.Print(os.Stdout, st, ev.Standings); err != nil {
				log.Fatal(err)
			}
			fmt.Println()
		default:
			arena.Debug.Println("Unknown event", ev.Type)
		}
	}
}
