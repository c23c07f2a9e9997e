// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/codec"
)

// Kind identifies the record type stored in an account's data. Always
// serialized under CBOR key 1.
type Kind uint8

const (
	// KindEvent marks an event account.
	KindEvent Kind = 1
	// KindTicketMint marks a ticket mint account.
	KindTicketMint Kind = 2
	// KindHolding marks a token holding account.
	KindHolding Kind = 3
	// KindListing marks a resale listing account.
	KindListing Kind = 4
)

// String returns the record kind name used in logs and CLI output.
func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindTicketMint:
		return "ticket-mint"
	case KindHolding:
		return "holding"
	case KindListing:
		return "listing"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Text field bounds, in bytes. These match the original on-chain
// account layout and are enforced at event creation.
const (
	MaxTitleLen = 64
	MaxVenueLen = 64
	MaxTierLen  = 32
)

// MaxResalePercent is the largest organizer resale share an event may
// set. Together with the platform's fixed 20% share this leaves the
// seller at least the rounding remainder of every resale.
const MaxResalePercent = 80

// Event is the account record for one ticketed occasion. Lives at the
// address derived from (organizer, nonce).
type Event struct {
	Kind          Kind            `cbor:"1,keyasint"`
	Organizer     address.Address `cbor:"2,keyasint"`
	Nonce         uint64          `cbor:"3,keyasint"`
	Title         string          `cbor:"4,keyasint"`
	Venue         string          `cbor:"5,keyasint"`
	Date          int64           `cbor:"6,keyasint"` // unix seconds
	Tier          string          `cbor:"7,keyasint"`
	UnitPrice     uint64          `cbor:"8,keyasint"` // smallest currency unit
	Supply        uint32          `cbor:"9,keyasint"`
	Sold          uint32          `cbor:"10,keyasint"`
	ResalePercent uint8           `cbor:"11,keyasint"` // organizer share of resales, 0-80
}

// Validate checks the creation-time constraints on an event record.
// It does not check Sold; that field is owned by the program after
// creation.
func (e *Event) Validate() error {
	if e.Kind != KindEvent {
		return fmt.Errorf("schema: event record has kind %s", e.Kind)
	}
	if e.Organizer.IsZero() {
		return fmt.Errorf("schema: event organizer is zero")
	}
	if len(e.Title) > MaxTitleLen {
		return fmt.Errorf("schema: title is %d bytes, max %d", len(e.Title), MaxTitleLen)
	}
	if len(e.Venue) > MaxVenueLen {
		return fmt.Errorf("schema: venue is %d bytes, max %d", len(e.Venue), MaxVenueLen)
	}
	if len(e.Tier) > MaxTierLen {
		return fmt.Errorf("schema: tier is %d bytes, max %d", len(e.Tier), MaxTierLen)
	}
	if e.Supply == 0 {
		return fmt.Errorf("schema: supply must be positive")
	}
	if e.ResalePercent > MaxResalePercent {
		return fmt.Errorf("schema: resale percent %d exceeds max %d", e.ResalePercent, MaxResalePercent)
	}
	return nil
}

// TicketMint is the account record for one non-fungible ticket. Lives
// at the address derived from (event, index), where index is the
// event's sold counter at mint time. Authority is the co-derived
// mint-authority address; no private key exists for it. Exactly one
// unit is ever issued; AuthorityRevoked is set in the same instruction
// that issues it, so no later instruction can inflate the supply.
type TicketMint struct {
	Kind             Kind            `cbor:"1,keyasint"`
	Event            address.Address `cbor:"2,keyasint"`
	Index            uint32          `cbor:"3,keyasint"`
	Minted           uint8           `cbor:"4,keyasint"` // units issued, 0 or 1
	AuthorityRevoked bool            `cbor:"5,keyasint"`
	Authority        address.Address `cbor:"6,keyasint"`
}

// Holding is the account record pairing a mint with its current
// holder. Holder is a wallet address for user holdings, or a listing
// address while the unit sits in escrow. Lives at the address derived
// from (mint, holder).
type Holding struct {
	Kind   Kind            `cbor:"1,keyasint"`
	Mint   address.Address `cbor:"2,keyasint"`
	Holder address.Address `cbor:"3,keyasint"`
	Amount uint8           `cbor:"4,keyasint"` // 0 or 1
}

// Listing is the account record for one active resale offer. Lives at
// the address derived from (event, mint, seller); it exists exactly as
// long as the ticket sits in the escrow holding.
type Listing struct {
	Kind        Kind            `cbor:"1,keyasint"`
	Event       address.Address `cbor:"2,keyasint"`
	Mint        address.Address `cbor:"3,keyasint"`
	Seller      address.Address `cbor:"4,keyasint"`
	AskingPrice uint64          `cbor:"5,keyasint"`
	Escrow      address.Address `cbor:"6,keyasint"`
}

// Encode serializes a record to its canonical account data bytes.
func Encode(record any) ([]byte, error) {
	data, err := codec.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("schema: encoding record: %w", err)
	}
	return data, nil
}

// kindProbe decodes just the kind tag of a record.
type kindProbe struct {
	Kind Kind `cbor:"1,keyasint"`
}

// DecodeKind returns the record kind of account data without decoding
// the full record. External readers use this to dispatch while
// scanning substrate state.
func DecodeKind(data []byte) (Kind, error) {
	var probe kindProbe
	if err := codec.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("schema: decoding record kind: %w", err)
	}
	return probe.Kind, nil
}

// DecodeEvent decodes account data into an Event, verifying the kind
// tag.
func DecodeEvent(data []byte) (*Event, error) {
	var record Event
	if err := codec.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("schema: decoding event: %w", err)
	}
	if record.Kind != KindEvent {
		return nil, fmt.Errorf("schema: record is %s, want %s", record.Kind, KindEvent)
	}
	return &record, nil
}

// DecodeTicketMint decodes account data into a TicketMint, verifying
// the kind tag.
func DecodeTicketMint(data []byte) (*TicketMint, error) {
	var record TicketMint
	if err := codec.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("schema: decoding ticket mint: %w", err)
	}
	if record.Kind != KindTicketMint {
		return nil, fmt.Errorf("schema: record is %s, want %s", record.Kind, KindTicketMint)
	}
	return &record, nil
}

// DecodeHolding decodes account data into a Holding, verifying the
// kind tag.
func DecodeHolding(data []byte) (*Holding, error) {
	var record Holding
	if err := codec.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("schema: decoding holding: %w", err)
	}
	if record.Kind != KindHolding {
		return nil, fmt.Errorf("schema: record is %s, want %s", record.Kind, KindHolding)
	}
	return &record, nil
}

// DecodeListing decodes account data into a Listing, verifying the
// kind tag.
func DecodeListing(data []byte) (*Listing, error) {
	var record Listing
	if err := codec.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("schema: decoding listing: %w", err)
	}
	if record.Kind != KindListing {
		return nil, fmt.Errorf("schema: record is %s, want %s", record.Kind, KindListing)
	}
	return &record, nil
}
