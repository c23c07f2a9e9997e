// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"fmt"
	"log/slog"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/codec"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
)

// Params are the deployment-time program parameters.
type Params struct {
	// PlatformTreasury is the wallet receiving the platform's fixed
	// resale share. Must be an initialized account before the first
	// buy_resale; ledger genesis takes care of that.
	PlatformTreasury address.Address
}

// Program is the TicketChain instruction handler. Register it on a
// ledger under [Name]:
//
//	prog, err := program.New(program.Params{PlatformTreasury: treasury}, logger)
//	err = led.Register(program.Name, prog)
type Program struct {
	params Params
	logger *slog.Logger
}

// New validates the parameters and returns a Program. Logger may be
// nil for a no-op logger.
func New(params Params, logger *slog.Logger) (*Program, error) {
	if params.PlatformTreasury.IsZero() {
		return nil, fmt.Errorf("program: PlatformTreasury is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Program{params: params, logger: logger}, nil
}

// Execute dispatches one instruction. Implements ledger.Program.
func (p *Program) Execute(ctx *ledger.ExecContext, instruction string, payload codec.RawMessage) error {
	switch instruction {
	case InstrCreateEvent:
		return p.createEvent(ctx, payload)
	case InstrBuyTicket:
		return p.buyTicket(ctx, payload)
	case InstrListForResale:
		return p.listForResale(ctx, payload)
	case InstrBuyResale:
		return p.buyResale(ctx, payload)
	case InstrCancelListing:
		return p.cancelListing(ctx, payload)
	case InstrCloseEvent:
		return p.closeEvent(ctx, payload)
	}
	return errorf(CodeInvalidArgument, "unknown instruction %q", instruction)
}

// decodeArgs decodes an instruction payload, mapping malformed input
// to InvalidArgument.
func decodeArgs(payload codec.RawMessage, args any) error {
	if err := codec.Unmarshal(payload, args); err != nil {
		return &Error{Code: CodeInvalidArgument, Message: "malformed instruction payload", Err: err}
	}
	return nil
}
