// Simulated Games
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
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go-arena"
)

// A Random runner flips a coin after waiting for a while
type Random struct {
	draw  float64
	delay time.Duration

	lock sync.Mutex
	src  *rand.Rand
}

func (r *Random) String() string {
	return fmt.Sprintf("Random (draw %.2f, delay %s)", r.draw, r.delay)
}

func (r *Random) Run(ctx context.Context, a, b arena.Competitor) (arena.Competitor, error) {
	r.lock.Lock()
	var (
		wait = time.Duration(r.src.Int63n(int64(r.delay) + 1))
		tie  = r.src.Float64() < r.draw
		coin = r.src.Intn(2)
	)
	r.lock.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	switch {
	case tie:
		return nil, nil
	case coin == 0:
		return a, nil
	default:
		return b, nil
	}
}

// Create a runner that declares a tie with probability DRAW, and
// otherwise picks a winner at random.  Each game takes up to DELAY.
func MakeRandom(draw float64, delay time.Duration, seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if delay < 0 {
		delay = 0
	}
	return &Random{
		draw:  draw,
		delay: delay,
		src:   rand.New(rand.NewSource(seed)),
	}
}
