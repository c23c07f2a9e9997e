// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"errors"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
	"github.com/ticketchain-foundation/ticketchain/lib/schema"
)

// Account loaders shared by the instruction handlers. A missing
// account maps to InvalidArgument (the caller referenced something
// that does not exist); an account holding the wrong record kind maps
// to AccountMismatch (the caller passed a real account in the wrong
// role).

func loadEvent(ctx *ledger.ExecContext, addr address.Address) (*schema.Event, error) {
	account, err := ctx.Account(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, errorf(CodeInvalidArgument, "event %s is not initialized", addr.Short())
	}
	if err != nil {
		return nil, err
	}
	record, err := schema.DecodeEvent(account.Data)
	if err != nil {
		return nil, &Error{Code: CodeAccountMismatch, Message: "account " + addr.Short() + " does not hold an event record", Err: err}
	}
	return record, nil
}

func loadTicketMint(ctx *ledger.ExecContext, addr address.Address) (*schema.TicketMint, error) {
	account, err := ctx.Account(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, errorf(CodeInvalidArgument, "ticket mint %s is not initialized", addr.Short())
	}
	if err != nil {
		return nil, err
	}
	record, err := schema.DecodeTicketMint(account.Data)
	if err != nil {
		return nil, &Error{Code: CodeAccountMismatch, Message: "account " + addr.Short() + " does not hold a ticket mint record", Err: err}
	}
	return record, nil
}

func loadListing(ctx *ledger.ExecContext, addr address.Address) (*schema.Listing, error) {
	account, err := ctx.Account(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, errorf(CodeInvalidArgument, "listing %s is not initialized", addr.Short())
	}
	if err != nil {
		return nil, err
	}
	record, err := schema.DecodeListing(account.Data)
	if err != nil {
		return nil, &Error{Code: CodeAccountMismatch, Message: "account " + addr.Short() + " does not hold a listing record", Err: err}
	}
	return record, nil
}

// loadHolding returns the holding record at addr, or (nil, nil) if no
// account is initialized there. Holdings are frequently absent in
// legitimate flows (first purchase auto-creates), so absence is not an
// error here.
func loadHolding(ctx *ledger.ExecContext, addr address.Address) (*schema.Holding, error) {
	account, err := ctx.Account(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	record, err := schema.DecodeHolding(account.Data)
	if err != nil {
		return nil, &Error{Code: CodeAccountMismatch, Message: "account " + addr.Short() + " does not hold a holding record", Err: err}
	}
	return record, nil
}

// storeRecord re-encodes a record into its account.
func storeRecord(ctx *ledger.ExecContext, addr address.Address, record any) error {
	data, err := schema.Encode(record)
	if err != nil {
		return err
	}
	return ctx.SetData(addr, data)
}
