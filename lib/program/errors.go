// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"errors"
	"fmt"

	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
)

// Code classifies why an instruction was rejected. Codes are part of
// the external interface: the transaction-builder collaborator maps
// them to user-facing failures.
type Code string

const (
	// CodeInvalidArgument marks malformed or out-of-range instruction
	// input, including references to uninitialized accounts.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeUnauthorized marks a missing or wrong signer.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeAccountCollision marks a deterministic address that is
	// already initialized.
	CodeAccountCollision Code = "ACCOUNT_COLLISION"
	// CodeSoldOut marks a primary sale against a fully sold event.
	CodeSoldOut Code = "SOLD_OUT"
	// CodeInsufficientFunds marks a payer balance below the required
	// price plus account deposits.
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	// CodeOverflow marks arithmetic that would exceed the
	// representable range.
	CodeOverflow Code = "OVERFLOW"
	// CodeAccountMismatch marks an account whose recorded
	// relationships contradict the accounts supplied with the
	// instruction.
	CodeAccountMismatch Code = "ACCOUNT_MISMATCH"
)

// Error is a typed instruction rejection. Callers use errors.As to
// extract the code:
//
//	var programErr *program.Error
//	if errors.As(err, &programErr) {
//	    if programErr.Code == program.CodeSoldOut { ... }
//	}
type Error struct {
	// Code is the rejection class.
	Code Code
	// Message describes the specific failure.
	Message string
	// Err is the underlying substrate error, if any.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ticketchain: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCode checks whether err is a *Error with the given code.
func IsCode(err error, code Code) bool {
	var programErr *Error
	if errors.As(err, &programErr) {
		return programErr.Code == code
	}
	return false
}

// errorf builds a typed rejection.
func errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// wrapLedger translates substrate errors that surface user-visible
// conditions into the instruction taxonomy, passing anything else
// through unchanged (those indicate bugs, not caller mistakes).
func wrapLedger(err error, context string) error {
	if err == nil {
		return nil
	}
	var code Code
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		code = CodeInsufficientFunds
	case errors.Is(err, ledger.ErrAccountExists):
		code = CodeAccountCollision
	case errors.Is(err, ledger.ErrBalanceOverflow):
		code = CodeOverflow
	default:
		return fmt.Errorf("%s: %w", context, err)
	}
	return &Error{Code: code, Message: context, Err: err}
}
