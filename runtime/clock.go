// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync/atomic"
	"time"
)

// Clock yields the height new invocations execute at.
type Clock interface {
	Height() uint32
}

// IntervalClock counts block intervals elapsed since a launch time.
type IntervalClock struct {
	launch   time.Time
	interval time.Duration
	now      func() time.Time
}

func NewIntervalClock(launch time.Time, interval time.Duration) *IntervalClock {
	return &IntervalClock{launch: launch, interval: interval, now: time.Now}
}

func (c *IntervalClock) Height() uint32 {
	elapsed := c.now().Sub(c.launch)
	if elapsed < 0 || c.interval <= 0 {
		return 0
	}
	n := elapsed / c.interval
	if n > time.Duration(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(n)
}

// ManualClock is moved explicitly. Used in dev mode and tests.
type ManualClock struct {
	height atomic.Uint32
}

func NewManualClock(height uint32) *ManualClock {
	c := &ManualClock{}
	c.height.Store(height)
	return c
}

func (c *ManualClock) Height() uint32 { return c.height.Load() }

func (c *ManualClock) Set(height uint32) { c.height.Store(height) }

// Advance moves the clock n heights forward and returns the new height.
func (c *ManualClock) Advance(n uint32) uint32 { return c.height.Add(n) }
