// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/codec"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
	"github.com/ticketchain-foundation/ticketchain/lib/schema"
)

// buyTicket executes one primary sale: the buyer pays the unit price
// to the organizer, a ticket mint is initialized at the index equal to
// the event's current sold counter, its single unit lands in the
// buyer's holding, and the sold counter advances. The mint record is
// written already issued and with its authority revoked, so the
// supply of every mint is fixed at one from the moment it exists.
func (p *Program) buyTicket(ctx *ledger.ExecContext, payload codec.RawMessage) error {
	var args BuyTicketArgs
	if err := decodeArgs(payload, &args); err != nil {
		return err
	}
	if !ctx.Signed(args.Buyer) {
		return errorf(CodeUnauthorized, "buyer %s did not sign", args.Buyer.Short())
	}

	event, err := loadEvent(ctx, args.Event)
	if err != nil {
		return err
	}
	if event.Sold >= event.Supply {
		return errorf(CodeSoldOut, "event %s: %d of %d sold", args.Event.Short(), event.Sold, event.Supply)
	}

	index := event.Sold
	mintAddr := address.DeriveTicketMint(args.Event, index)
	holdingAddr := address.DeriveHolding(mintAddr, args.Buyer)

	// The mint is born with its single unit issued and the co-derived
	// authority already revoked, so the record can never be re-minted.
	mintData, err := schema.Encode(&schema.TicketMint{
		Kind:             schema.KindTicketMint,
		Event:            args.Event,
		Index:            index,
		Minted:           1,
		AuthorityRevoked: true,
		Authority:        address.DeriveMintAuthority(args.Event, index),
	})
	if err != nil {
		return err
	}
	holdingData, err := schema.Encode(&schema.Holding{
		Kind:   schema.KindHolding,
		Mint:   mintAddr,
		Holder: args.Buyer,
		Amount: 1,
	})
	if err != nil {
		return err
	}

	// The buyer covers the price and both storage deposits; check the
	// whole cost up front so a partially funded purchase rejects
	// before touching anything.
	needed, err := addU64(event.UnitPrice, ledger.DepositFor(len(mintData)))
	if err != nil {
		return err
	}
	needed, err = addU64(needed, ledger.DepositFor(len(holdingData)))
	if err != nil {
		return err
	}
	buyer, err := ctx.Account(args.Buyer)
	if err != nil {
		return errorf(CodeInvalidArgument, "buyer %s is not initialized", args.Buyer.Short())
	}
	if buyer.Balance < needed {
		return errorf(CodeInsufficientFunds, "buyer %s has %d, needs %d", args.Buyer.Short(), buyer.Balance, needed)
	}
	sold, err := addU32(event.Sold, 1)
	if err != nil {
		return err
	}

	if err := ctx.Transfer(args.Buyer, event.Organizer, event.UnitPrice); err != nil {
		return wrapLedger(err, "paying organizer")
	}
	if err := ctx.CreateAccount(mintAddr, mintData, args.Buyer); err != nil {
		return wrapLedger(err, "creating ticket mint")
	}
	if err := ctx.CreateAccount(holdingAddr, holdingData, args.Buyer); err != nil {
		return wrapLedger(err, "creating buyer holding")
	}
	event.Sold = sold
	if err := storeRecord(ctx, args.Event, event); err != nil {
		return err
	}

	p.logger.Info("ticket minted",
		"event", args.Event.Short(),
		"mint", mintAddr.Short(),
		"index", index,
		"buyer", args.Buyer.Short())
	return nil
}

// ensureHolding returns the holding account address for (mint,
// holder), initializing an empty holding there on payer's deposit if
// none exists yet.
func ensureHolding(ctx *ledger.ExecContext, mint, holder, payer address.Address) (address.Address, error) {
	addr := address.DeriveHolding(mint, holder)
	exists, err := ctx.Exists(addr)
	if err != nil {
		return address.Zero, err
	}
	if exists {
		return addr, nil
	}
	data, err := schema.Encode(&schema.Holding{
		Kind:   schema.KindHolding,
		Mint:   mint,
		Holder: holder,
		Amount: 0,
	})
	if err != nil {
		return address.Zero, err
	}
	if err := ctx.CreateAccount(addr, data, payer); err != nil {
		return address.Zero, wrapLedger(err, "creating holding account")
	}
	return addr, nil
}

// setHoldingAmount rewrites a holding record with a new unit count.
func setHoldingAmount(ctx *ledger.ExecContext, addr address.Address, amount uint8) error {
	holding, err := loadHolding(ctx, addr)
	if err != nil {
		return err
	}
	if holding == nil {
		return errorf(CodeInvalidArgument, "holding %s is not initialized", addr.Short())
	}
	holding.Amount = amount
	return storeRecord(ctx, addr, holding)
}
