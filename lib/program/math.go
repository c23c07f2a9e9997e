// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"math"
	"math/bits"

	"github.com/ticketchain-foundation/ticketchain/lib/schema"
)

// PlatformResalePercent is the platform's fixed share of every resale
// price. Together with schema.MaxResalePercent (80) it can never
// exceed the asking price.
const PlatformResalePercent = 20

// Split computes the three-way division of a resale price. The
// organizer and platform cuts round down; the seller's cut absorbs
// the remainder, so the three always sum to askingPrice exactly and
// sub-unit rounding loss lands on the seller.
func Split(askingPrice uint64, resalePercent uint8) (organizerCut, platformCut, sellerCut uint64, err error) {
	if resalePercent > schema.MaxResalePercent {
		return 0, 0, 0, errorf(CodeInvalidArgument, "resale percent %d exceeds max %d", resalePercent, schema.MaxResalePercent)
	}

	organizerCut, err = percentOf(askingPrice, uint64(resalePercent))
	if err != nil {
		return 0, 0, 0, err
	}
	platformCut, err = percentOf(askingPrice, PlatformResalePercent)
	if err != nil {
		return 0, 0, 0, err
	}

	// resalePercent + 20 <= 100, so the floored cuts sum to at most
	// askingPrice and this subtraction cannot underflow.
	sellerCut = askingPrice - organizerCut - platformCut
	return organizerCut, platformCut, sellerCut, nil
}

// percentOf returns floor(amount * percent / 100), failing with
// Overflow if the intermediate product exceeds 64 bits.
func percentOf(amount, percent uint64) (uint64, error) {
	product, err := mulU64(amount, percent)
	if err != nil {
		return 0, err
	}
	return product / 100, nil
}

// addU64 adds two currency amounts, failing with Overflow instead of
// wrapping.
func addU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errorf(CodeOverflow, "amount %d + %d exceeds range", a, b)
	}
	return sum, nil
}

// mulU64 multiplies two currency amounts, failing with Overflow
// instead of wrapping.
func mulU64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errorf(CodeOverflow, "amount %d * %d exceeds range", a, b)
	}
	return lo, nil
}

// addU32 adds two counters, failing with Overflow instead of wrapping.
func addU32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, errorf(CodeOverflow, "counter %d + %d exceeds range", a, b)
	}
	return a + b, nil
}
