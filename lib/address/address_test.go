// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"crypto/ed25519"
	"strings"
	"testing"
)

func testWallet(t *testing.T, seed byte) Address {
	t.Helper()
	var seedBytes [ed25519.SeedSize]byte
	seedBytes[0] = seed
	key := ed25519.NewKeyFromSeed(seedBytes[:])
	addr, err := FromPublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	return addr
}

func TestFromPublicKeyRejectsWrongSize(t *testing.T) {
	if _, err := FromPublicKey(make([]byte, 16)); err == nil {
		t.Fatal("expected error for 16-byte key")
	}
}

func TestParseFormatRoundtrip(t *testing.T) {
	addr := testWallet(t, 1)

	parsed, err := Parse(addr.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != addr {
		t.Errorf("roundtrip mismatch: got %s, want %s", parsed, addr)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"zz",
		"abcd",                   // too short
		strings.Repeat("ab", 33), // too long
		strings.Repeat("0", 64),  // zero address
		strings.Repeat("g", 64),  // not hex
	}
	for _, input := range cases {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestTextMarshalRoundtrip(t *testing.T) {
	addr := testWallet(t, 2)

	text, err := addr.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var decoded Address
	if err := decoded.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if decoded != addr {
		t.Errorf("text roundtrip mismatch: got %s, want %s", decoded, addr)
	}
}

func TestShortFormat(t *testing.T) {
	addr := testWallet(t, 3)
	short := addr.Short()
	if !strings.HasPrefix(short, "tkt-") {
		t.Errorf("Short() = %q, want tkt- prefix", short)
	}
	if len(short) != len("tkt-")+12 {
		t.Errorf("Short() = %q, want 12 hex characters after prefix", short)
	}
}

func TestDerivationIsDeterministic(t *testing.T) {
	organizer := testWallet(t, 4)

	first := DeriveEvent(organizer, 7)
	second := DeriveEvent(organizer, 7)
	if first != second {
		t.Errorf("DeriveEvent not deterministic: %s != %s", first, second)
	}
}

func TestDerivationDistinctAcrossSeeds(t *testing.T) {
	organizer := testWallet(t, 5)
	other := testWallet(t, 6)

	// Distinct nonces, distinct organizers.
	seen := map[Address]string{}
	record := func(addr Address, label string) {
		if prior, ok := seen[addr]; ok {
			t.Fatalf("address collision between %s and %s", prior, label)
		}
		seen[addr] = label
	}

	for nonce := uint64(0); nonce < 32; nonce++ {
		record(DeriveEvent(organizer, nonce), "organizer nonce")
		record(DeriveEvent(other, nonce), "other nonce")
	}

	event := DeriveEvent(organizer, 0)
	for index := uint32(0); index < 32; index++ {
		record(DeriveTicketMint(event, index), "ticket mint")
		record(DeriveMintAuthority(event, index), "mint authority")
	}
}

func TestDerivationDistinctAcrossFamilies(t *testing.T) {
	organizer := testWallet(t, 7)
	event := DeriveEvent(organizer, 0)

	// Ticket mint and mint authority share seed bytes but use
	// different domain keys, so they must never coincide.
	mint := DeriveTicketMint(event, 0)
	authority := DeriveMintAuthority(event, 0)
	if mint == authority {
		t.Error("ticket mint and mint authority derived to the same address")
	}

	listing := DeriveListing(event, mint, organizer)
	escrow := DeriveEscrow(listing)
	if listing == escrow {
		t.Error("listing and escrow derived to the same address")
	}

	holding := DeriveHolding(mint, organizer)
	escrowHolding := DeriveHolding(mint, listing)
	if holding == escrowHolding {
		t.Error("wallet holding and escrow holding derived to the same address")
	}
}

func TestDerivedAddressesAreNotWallets(t *testing.T) {
	organizer := testWallet(t, 8)
	event := DeriveEvent(organizer, 1)
	if event == organizer {
		t.Error("derived event address equals organizer wallet")
	}
	if event.IsZero() {
		t.Error("derived event address is zero")
	}
}
