// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts wall-clock reads for testability. Production
// code injects [Real]; tests inject [Fake] and advance it explicitly,
// so ledger log timestamps are deterministic under test.
//
// The ledger core never sleeps or schedules — instructions are
// single-pass — so the interface is deliberately just Now.
package clock

import "time"

// Clock provides the current time. Every production function that
// would call time.Now takes a Clock (or is a method on a struct with a
// Clock field) instead.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
