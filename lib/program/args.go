// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import "github.com/ticketchain-foundation/ticketchain/lib/address"

// Name is the program's registration name on the ledger and the
// Program field of every TicketChain transaction message.
const Name = "ticketchain"

// Instruction names. These are the external instruction surface; the
// transaction-builder collaborator encodes one of these plus the
// matching args struct into each transaction message.
const (
	InstrCreateEvent   = "create_event"
	InstrBuyTicket     = "buy_ticket"
	InstrListForResale = "list_for_resale"
	InstrBuyResale     = "buy_resale"
	InstrCancelListing = "cancel_listing"
	InstrCloseEvent    = "close_event"
)

// CreateEventArgs are the arguments of create_event. The organizer
// must sign the transaction and pays the event account's storage
// deposit.
type CreateEventArgs struct {
	Organizer     address.Address `cbor:"1,keyasint"`
	Nonce         uint64          `cbor:"2,keyasint"`
	Title         string          `cbor:"3,keyasint"`
	Venue         string          `cbor:"4,keyasint"`
	Date          int64           `cbor:"5,keyasint"` // unix seconds
	Tier          string          `cbor:"6,keyasint"`
	UnitPrice     uint64          `cbor:"7,keyasint"`
	Supply        uint32          `cbor:"8,keyasint"`
	ResalePercent uint8           `cbor:"9,keyasint"`
}

// BuyTicketArgs are the arguments of buy_ticket. The buyer must sign;
// the ticket mint and holding addresses are derived, not supplied.
type BuyTicketArgs struct {
	Event address.Address `cbor:"1,keyasint"`
	Buyer address.Address `cbor:"2,keyasint"`
}

// ListForResaleArgs are the arguments of list_for_resale. The seller
// must sign and currently hold the one unit of Mint.
type ListForResaleArgs struct {
	Event       address.Address `cbor:"1,keyasint"`
	Mint        address.Address `cbor:"2,keyasint"`
	Seller      address.Address `cbor:"3,keyasint"`
	AskingPrice uint64          `cbor:"4,keyasint"`
}

// BuyResaleArgs are the arguments of buy_resale. The buyer must sign
// and pays the asking price plus any holding-account deposit.
type BuyResaleArgs struct {
	Listing address.Address `cbor:"1,keyasint"`
	Buyer   address.Address `cbor:"2,keyasint"`
}

// CancelListingArgs are the arguments of cancel_listing. The listing's
// recorded seller must sign.
type CancelListingArgs struct {
	Listing address.Address `cbor:"1,keyasint"`
}

// CloseEventArgs are the arguments of close_event. The event's
// recorded organizer must sign and receives the storage deposit back.
type CloseEventArgs struct {
	Event address.Address `cbor:"1,keyasint"`
}
