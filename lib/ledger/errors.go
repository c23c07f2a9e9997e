// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import "errors"

// Substrate errors. Program handlers translate the ones that surface
// user-visible conditions (balance, collisions) into their own error
// taxonomy; the rest indicate caller bugs or corruption.
var (
	// ErrAccountNotFound is returned when reading an address with no
	// initialized account.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrAccountExists is returned by CreateAccount when the address
	// is already initialized.
	ErrAccountExists = errors.New("ledger: account already exists")

	// ErrInsufficientBalance is returned when a transfer or deposit
	// debit exceeds the source account's balance.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrBalanceOverflow is returned when a credit would push a
	// balance past the representable range.
	ErrBalanceOverflow = errors.New("ledger: balance overflow")

	// ErrNotAuthorized is returned when a transfer source is neither
	// a signed wallet nor an account owned by the executing program,
	// or when a program mutates an account it does not own.
	ErrNotAuthorized = errors.New("ledger: not authorized")

	// ErrUnknownProgram is returned by Execute for a transaction
	// naming a program that was never registered.
	ErrUnknownProgram = errors.New("ledger: unknown program")

	// ErrBadSignature is returned by Execute when any attached
	// signature fails Ed25519 verification against the message bytes.
	ErrBadSignature = errors.New("ledger: bad signature")
)
