// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/codec"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
	"github.com/ticketchain-foundation/ticketchain/lib/schema"
)

// listForResale opens a resale offer: a listing account is initialized
// at the address derived from (event, mint, seller), and the seller's
// single unit moves into an escrow holding owned by the listing. The
// seller pays both storage deposits and gets them back when the
// listing resolves.
func (p *Program) listForResale(ctx *ledger.ExecContext, payload codec.RawMessage) error {
	var args ListForResaleArgs
	if err := decodeArgs(payload, &args); err != nil {
		return err
	}
	if args.AskingPrice == 0 {
		return errorf(CodeInvalidArgument, "asking price must be positive")
	}
	if !ctx.Signed(args.Seller) {
		return errorf(CodeUnauthorized, "seller %s did not sign", args.Seller.Short())
	}

	if _, err := loadEvent(ctx, args.Event); err != nil {
		return err
	}
	mint, err := loadTicketMint(ctx, args.Mint)
	if err != nil {
		return err
	}
	if mint.Event != args.Event {
		return errorf(CodeAccountMismatch, "ticket mint %s belongs to event %s, not %s",
			args.Mint.Short(), mint.Event.Short(), args.Event.Short())
	}

	sellerHoldingAddr := address.DeriveHolding(args.Mint, args.Seller)
	sellerHolding, err := loadHolding(ctx, sellerHoldingAddr)
	if err != nil {
		return err
	}
	if sellerHolding == nil || sellerHolding.Amount == 0 {
		return errorf(CodeUnauthorized, "seller %s does not hold ticket %s", args.Seller.Short(), args.Mint.Short())
	}

	listingAddr := address.DeriveListing(args.Event, args.Mint, args.Seller)
	exists, err := ctx.Exists(listingAddr)
	if err != nil {
		return err
	}
	if exists {
		return errorf(CodeAccountCollision, "listing already exists at %s", listingAddr.Short())
	}
	escrowAddr := address.DeriveEscrow(listingAddr)

	listingData, err := schema.Encode(&schema.Listing{
		Kind:        schema.KindListing,
		Event:       args.Event,
		Mint:        args.Mint,
		Seller:      args.Seller,
		AskingPrice: args.AskingPrice,
		Escrow:      escrowAddr,
	})
	if err != nil {
		return err
	}
	escrowData, err := schema.Encode(&schema.Holding{
		Kind:   schema.KindHolding,
		Mint:   args.Mint,
		Holder: listingAddr,
		Amount: 1,
	})
	if err != nil {
		return err
	}

	deposits, err := addU64(ledger.DepositFor(len(listingData)), ledger.DepositFor(len(escrowData)))
	if err != nil {
		return err
	}
	seller, err := ctx.Account(args.Seller)
	if err != nil {
		return errorf(CodeInvalidArgument, "seller %s is not initialized", args.Seller.Short())
	}
	if seller.Balance < deposits {
		return errorf(CodeInsufficientFunds, "seller %s has %d, needs %d for deposits", args.Seller.Short(), seller.Balance, deposits)
	}

	if err := ctx.CreateAccount(listingAddr, listingData, args.Seller); err != nil {
		return wrapLedger(err, "creating listing account")
	}
	if err := ctx.CreateAccount(escrowAddr, escrowData, args.Seller); err != nil {
		return wrapLedger(err, "creating escrow holding")
	}
	sellerHolding.Amount = 0
	if err := storeRecord(ctx, sellerHoldingAddr, sellerHolding); err != nil {
		return err
	}

	p.logger.Info("listing opened",
		"listing", listingAddr.Short(),
		"mint", args.Mint.Short(),
		"seller", args.Seller.Short(),
		"asking_price", args.AskingPrice)
	return nil
}

// buyResale settles a listing: the asking price splits three ways per
// the event's resale percent (organizer and platform cuts floored,
// seller absorbing the remainder), the escrowed unit moves to the
// buyer, and the listing plus escrow close with their deposits
// refunded to the seller.
func (p *Program) buyResale(ctx *ledger.ExecContext, payload codec.RawMessage) error {
	var args BuyResaleArgs
	if err := decodeArgs(payload, &args); err != nil {
		return err
	}
	if !ctx.Signed(args.Buyer) {
		return errorf(CodeUnauthorized, "buyer %s did not sign", args.Buyer.Short())
	}

	listing, err := loadListing(ctx, args.Listing)
	if err != nil {
		return err
	}
	if args.Buyer == listing.Seller {
		return errorf(CodeUnauthorized, "seller %s cannot buy their own listing", listing.Seller.Short())
	}
	event, err := loadEvent(ctx, listing.Event)
	if err != nil {
		return err
	}

	organizerCut, platformCut, sellerCut, err := Split(listing.AskingPrice, event.ResalePercent)
	if err != nil {
		return err
	}

	buyerHoldingAddr := address.DeriveHolding(listing.Mint, args.Buyer)
	holdingExists, err := ctx.Exists(buyerHoldingAddr)
	if err != nil {
		return err
	}

	needed := listing.AskingPrice
	if !holdingExists {
		holdingData, err := schema.Encode(&schema.Holding{
			Kind:   schema.KindHolding,
			Mint:   listing.Mint,
			Holder: args.Buyer,
			Amount: 0,
		})
		if err != nil {
			return err
		}
		needed, err = addU64(needed, ledger.DepositFor(len(holdingData)))
		if err != nil {
			return err
		}
	}
	buyer, err := ctx.Account(args.Buyer)
	if err != nil {
		return errorf(CodeInvalidArgument, "buyer %s is not initialized", args.Buyer.Short())
	}
	if buyer.Balance < needed {
		return errorf(CodeInsufficientFunds, "buyer %s has %d, needs %d", args.Buyer.Short(), buyer.Balance, needed)
	}

	if _, err := ensureHolding(ctx, listing.Mint, args.Buyer, args.Buyer); err != nil {
		return err
	}
	if err := ctx.Transfer(args.Buyer, event.Organizer, organizerCut); err != nil {
		return wrapLedger(err, "paying organizer cut")
	}
	if err := ctx.Transfer(args.Buyer, p.params.PlatformTreasury, platformCut); err != nil {
		return wrapLedger(err, "paying platform cut")
	}
	if err := ctx.Transfer(args.Buyer, listing.Seller, sellerCut); err != nil {
		return wrapLedger(err, "paying seller cut")
	}
	if err := setHoldingAmount(ctx, buyerHoldingAddr, 1); err != nil {
		return err
	}
	if err := ctx.CloseAccount(listing.Escrow, listing.Seller); err != nil {
		return wrapLedger(err, "closing escrow holding")
	}
	if err := ctx.CloseAccount(args.Listing, listing.Seller); err != nil {
		return wrapLedger(err, "closing listing account")
	}

	p.logger.Info("resale settled",
		"listing", args.Listing.Short(),
		"mint", listing.Mint.Short(),
		"buyer", args.Buyer.Short(),
		"seller", listing.Seller.Short(),
		"organizer_cut", organizerCut,
		"platform_cut", platformCut,
		"seller_cut", sellerCut)
	return nil
}

// cancelListing withdraws an open listing: the escrowed unit returns
// to the seller's holding, and the listing plus escrow close with
// their deposits refunded. Only the listing's recorded seller may
// cancel.
func (p *Program) cancelListing(ctx *ledger.ExecContext, payload codec.RawMessage) error {
	var args CancelListingArgs
	if err := decodeArgs(payload, &args); err != nil {
		return err
	}

	listing, err := loadListing(ctx, args.Listing)
	if err != nil {
		return err
	}
	if !ctx.Signed(listing.Seller) {
		return errorf(CodeUnauthorized, "only seller %s may cancel the listing", listing.Seller.Short())
	}

	// The seller's holding normally survives listing at amount zero,
	// but re-initialize it if it was since closed out.
	sellerHoldingAddr, err := ensureHolding(ctx, listing.Mint, listing.Seller, listing.Seller)
	if err != nil {
		return err
	}
	if err := setHoldingAmount(ctx, sellerHoldingAddr, 1); err != nil {
		return err
	}
	if err := ctx.CloseAccount(listing.Escrow, listing.Seller); err != nil {
		return wrapLedger(err, "closing escrow holding")
	}
	if err := ctx.CloseAccount(args.Listing, listing.Seller); err != nil {
		return wrapLedger(err, "closing listing account")
	}

	p.logger.Info("listing cancelled",
		"listing", args.Listing.Short(),
		"mint", listing.Mint.Short(),
		"seller", listing.Seller.Short())
	return nil
}
