// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/codec"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
	"github.com/ticketchain-foundation/ticketchain/lib/schema"
)

// createEvent initializes a new event account at the address derived
// from (organizer, nonce). The organizer signs and pays the storage
// deposit; the sold counter starts at zero.
func (p *Program) createEvent(ctx *ledger.ExecContext, payload codec.RawMessage) error {
	var args CreateEventArgs
	if err := decodeArgs(payload, &args); err != nil {
		return err
	}

	record := &schema.Event{
		Kind:          schema.KindEvent,
		Organizer:     args.Organizer,
		Nonce:         args.Nonce,
		Title:         args.Title,
		Venue:         args.Venue,
		Date:          args.Date,
		Tier:          args.Tier,
		UnitPrice:     args.UnitPrice,
		Supply:        args.Supply,
		Sold:          0,
		ResalePercent: args.ResalePercent,
	}
	if err := record.Validate(); err != nil {
		return &Error{Code: CodeInvalidArgument, Message: "invalid event", Err: err}
	}
	if !ctx.Signed(args.Organizer) {
		return errorf(CodeUnauthorized, "organizer %s did not sign", args.Organizer.Short())
	}

	eventAddr := address.DeriveEvent(args.Organizer, args.Nonce)
	exists, err := ctx.Exists(eventAddr)
	if err != nil {
		return err
	}
	if exists {
		return errorf(CodeAccountCollision, "event already exists at %s (nonce %d reused)", eventAddr.Short(), args.Nonce)
	}

	data, err := schema.Encode(record)
	if err != nil {
		return err
	}
	if err := ctx.CreateAccount(eventAddr, data, args.Organizer); err != nil {
		return wrapLedger(err, "creating event account")
	}

	p.logger.Info("event created",
		"event", eventAddr.Short(),
		"organizer", args.Organizer.Short(),
		"supply", args.Supply,
		"unit_price", args.UnitPrice,
		"resale_percent", args.ResalePercent)
	return nil
}

// closeEvent deallocates an event account and refunds its storage
// deposit to the organizer. Outstanding ticket mints, holdings, and
// listings are untouched; tickets keep circulating, but new primary
// sales and resales of them stop, since both resolve the event record
// first.
func (p *Program) closeEvent(ctx *ledger.ExecContext, payload codec.RawMessage) error {
	var args CloseEventArgs
	if err := decodeArgs(payload, &args); err != nil {
		return err
	}

	event, err := loadEvent(ctx, args.Event)
	if err != nil {
		return err
	}
	if !ctx.Signed(event.Organizer) {
		return errorf(CodeUnauthorized, "only organizer %s may close the event", event.Organizer.Short())
	}

	if err := ctx.CloseAccount(args.Event, event.Organizer); err != nil {
		return wrapLedger(err, "closing event account")
	}

	p.logger.Info("event closed",
		"event", args.Event.Short(),
		"organizer", event.Organizer.Short(),
		"sold", event.Sold)
	return nil
}
