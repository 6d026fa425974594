// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run long tasks that stop between units of work
package background

import (
	"sync"
)

// Process - a task run on its own goroutine
//
// Run must return soon after shutdown is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle for a started set of processes
type T struct {
	shutdown chan struct{}
	done     chan struct{}
	once     sync.Once
}

// Start - start up a set of background processes
func Start(processes Processes, args interface{}) *T {

	t := &T{
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	var wg sync.WaitGroup
	wg.Add(len(processes))
	for _, p := range processes {
		go func(p Process) {
			defer wg.Done()
			p.Run(args, t.shutdown)
		}(p)
	}

	go func() {
		wg.Wait()
		close(t.done)
	}()

	return t
}

// Done - closed once every process has returned
func (t *T) Done() <-chan struct{} {
	return t.done
}

// Stop - ask every process to stop and wait for them
//
// safe to call more than once and after the processes have finished
func (t *T) Stop() {
	t.once.Do(func() {
		close(t.shutdown)
	})
	<-t.done
}
