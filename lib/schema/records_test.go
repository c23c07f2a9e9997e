// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
)

func testAddr(fill byte) address.Address {
	var addr address.Address
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func validEvent() *Event {
	return &Event{
		Kind:          KindEvent,
		Organizer:     testAddr(1),
		Nonce:         42,
		Title:         "Moonlight Sonata Live",
		Venue:         "Harbor Hall",
		Date:          1_790_000_000,
		Tier:          "GA",
		UnitPrice:     500_000,
		Supply:        2,
		ResalePercent: 30,
	}
}

func TestEventValidate(t *testing.T) {
	if err := validEvent().Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Event)
	}{
		{"wrong kind", func(e *Event) { e.Kind = KindListing }},
		{"zero organizer", func(e *Event) { e.Organizer = address.Zero }},
		{"title too long", func(e *Event) { e.Title = strings.Repeat("x", MaxTitleLen+1) }},
		{"venue too long", func(e *Event) { e.Venue = strings.Repeat("x", MaxVenueLen+1) }},
		{"tier too long", func(e *Event) { e.Tier = strings.Repeat("x", MaxTierLen+1) }},
		{"zero supply", func(e *Event) { e.Supply = 0 }},
		{"resale percent too high", func(e *Event) { e.ResalePercent = MaxResalePercent + 1 }},
	}
	for _, tc := range cases {
		event := validEvent()
		tc.mutate(event)
		if err := event.Validate(); err == nil {
			t.Errorf("%s: Validate succeeded, want error", tc.name)
		}
	}
}

func TestEventBoundsAreInclusive(t *testing.T) {
	event := validEvent()
	event.Title = strings.Repeat("t", MaxTitleLen)
	event.Venue = strings.Repeat("v", MaxVenueLen)
	event.Tier = strings.Repeat("r", MaxTierLen)
	event.ResalePercent = MaxResalePercent
	if err := event.Validate(); err != nil {
		t.Errorf("at-bound event rejected: %v", err)
	}
}

func TestEventEncodeDecodeRoundtrip(t *testing.T) {
	original := validEvent()
	original.Sold = 1

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if *decoded != *original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestEncodeIsCanonical(t *testing.T) {
	event := validEvent()

	first, err := Encode(event)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeEvent(first)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	second, err := Encode(decoded)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("re-encoding changed bytes: %x != %x", first, second)
	}
}

func TestDecodeKindDispatch(t *testing.T) {
	records := []struct {
		record any
		want   Kind
	}{
		{validEvent(), KindEvent},
		{&TicketMint{Kind: KindTicketMint, Event: testAddr(2), Index: 0, Minted: 1, AuthorityRevoked: true, Authority: testAddr(6)}, KindTicketMint},
		{&Holding{Kind: KindHolding, Mint: testAddr(3), Holder: testAddr(4), Amount: 1}, KindHolding},
		{&Listing{Kind: KindListing, Event: testAddr(2), Mint: testAddr(3), Seller: testAddr(4), AskingPrice: 9, Escrow: testAddr(5)}, KindListing},
	}
	for _, tc := range records {
		data, err := Encode(tc.record)
		if err != nil {
			t.Fatalf("Encode(%T): %v", tc.record, err)
		}
		kind, err := DecodeKind(data)
		if err != nil {
			t.Fatalf("DecodeKind(%T): %v", tc.record, err)
		}
		if kind != tc.want {
			t.Errorf("DecodeKind(%T) = %s, want %s", tc.record, kind, tc.want)
		}
	}
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	data, err := Encode(validEvent())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := DecodeListing(data); err == nil {
		t.Error("DecodeListing accepted an event record")
	}
	if _, err := DecodeTicketMint(data); err == nil {
		t.Error("DecodeTicketMint accepted an event record")
	}
	if _, err := DecodeHolding(data); err == nil {
		t.Error("DecodeHolding accepted an event record")
	}
}
