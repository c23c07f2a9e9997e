// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package program

import (
	"context"
	"crypto/ed25519"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/clock"
	"github.com/ticketchain-foundation/ticketchain/lib/ledger"
	"github.com/ticketchain-foundation/ticketchain/lib/schema"
)

// harness runs the program on an in-memory ledger and drives it
// through real signed transactions, the same path production traffic
// takes.
type harness struct {
	t        *testing.T
	led      *ledger.Ledger
	treasury address.Address
	credited uint64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := clock.Fake(time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))
	led, err := ledger.Open(ledger.Config{Path: ":memory:", Clock: fake})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { led.Close() })

	_, treasury := testKey(t, 0xEE)
	prog, err := New(Params{PlatformTreasury: treasury}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := led.Register(Name, prog); err != nil {
		t.Fatalf("Register: %v", err)
	}

	h := &harness{t: t, led: led, treasury: treasury}
	h.fund(treasury, 1)
	return h
}

func testKey(t *testing.T, seed byte) (ed25519.PrivateKey, address.Address) {
	t.Helper()
	var seedBytes [ed25519.SeedSize]byte
	seedBytes[0] = seed
	key := ed25519.NewKeyFromSeed(seedBytes[:])
	addr, err := address.FromPublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	return key, addr
}

func (h *harness) fund(addr address.Address, amount uint64) {
	h.t.Helper()
	if _, err := h.led.Credit(context.Background(), addr, amount); err != nil {
		h.t.Fatalf("Credit(%s): %v", addr.Short(), err)
	}
	h.credited += amount
}

func (h *harness) exec(instruction string, args any, keys ...ed25519.PrivateKey) error {
	h.t.Helper()
	tx, err := ledger.NewTransaction(Name, instruction, args)
	if err != nil {
		h.t.Fatalf("NewTransaction(%s): %v", instruction, err)
	}
	for _, key := range keys {
		if err := tx.Sign(key); err != nil {
			h.t.Fatalf("Sign: %v", err)
		}
	}
	_, err = h.led.Execute(context.Background(), tx)
	return err
}

func (h *harness) mustExec(instruction string, args any, keys ...ed25519.PrivateKey) {
	h.t.Helper()
	if err := h.exec(instruction, args, keys...); err != nil {
		h.t.Fatalf("%s: %v", instruction, err)
	}
}

func (h *harness) balance(addr address.Address) uint64 {
	h.t.Helper()
	account, err := h.led.Account(context.Background(), addr)
	if err != nil {
		h.t.Fatalf("Account(%s): %v", addr.Short(), err)
	}
	return account.Balance
}

func (h *harness) exists(addr address.Address) bool {
	h.t.Helper()
	_, err := h.led.Account(context.Background(), addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return false
	}
	if err != nil {
		h.t.Fatalf("Account(%s): %v", addr.Short(), err)
	}
	return true
}

func (h *harness) eventRecord(addr address.Address) *schema.Event {
	h.t.Helper()
	account, err := h.led.Account(context.Background(), addr)
	if err != nil {
		h.t.Fatalf("Account(%s): %v", addr.Short(), err)
	}
	record, err := schema.DecodeEvent(account.Data)
	if err != nil {
		h.t.Fatalf("DecodeEvent: %v", err)
	}
	return record
}

func (h *harness) mintRecord(addr address.Address) *schema.TicketMint {
	h.t.Helper()
	account, err := h.led.Account(context.Background(), addr)
	if err != nil {
		h.t.Fatalf("Account(%s): %v", addr.Short(), err)
	}
	record, err := schema.DecodeTicketMint(account.Data)
	if err != nil {
		h.t.Fatalf("DecodeTicketMint: %v", err)
	}
	return record
}

// holdingAmount returns the unit count of (mint, holder), or -1 if no
// holding account is initialized.
func (h *harness) holdingAmount(mint, holder address.Address) int {
	h.t.Helper()
	account, err := h.led.Account(context.Background(), address.DeriveHolding(mint, holder))
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return -1
	}
	if err != nil {
		h.t.Fatalf("Account: %v", err)
	}
	record, err := schema.DecodeHolding(account.Data)
	if err != nil {
		h.t.Fatalf("DecodeHolding: %v", err)
	}
	return int(record.Amount)
}

func (h *harness) createEvent(key ed25519.PrivateKey, organizer address.Address, nonce, price uint64, supply uint32, pct uint8) address.Address {
	h.t.Helper()
	h.mustExec(InstrCreateEvent, &CreateEventArgs{
		Organizer:     organizer,
		Nonce:         nonce,
		Title:         "Gopher Night",
		Venue:         "Pier 48",
		Date:          1790000000,
		Tier:          "GA",
		UnitPrice:     price,
		Supply:        supply,
		ResalePercent: pct,
	}, key)
	return address.DeriveEvent(organizer, nonce)
}

// totalBalance sums every account on the ledger.
func (h *harness) totalBalance() uint64 {
	h.t.Helper()
	var total uint64
	err := h.led.Scan(context.Background(), func(account ledger.Account) error {
		total += account.Balance
		return nil
	})
	if err != nil {
		h.t.Fatalf("Scan: %v", err)
	}
	return total
}

func TestCreateEventWritesRecord(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	h.fund(organizer, 1_000_000)

	before := h.balance(organizer)
	eventAddr := h.createEvent(orgKey, organizer, 7, 500_000, 25, 30)

	record := h.eventRecord(eventAddr)
	if record.Organizer != organizer || record.Nonce != 7 {
		t.Errorf("record identity = (%s, %d)", record.Organizer.Short(), record.Nonce)
	}
	if record.Title != "Gopher Night" || record.Venue != "Pier 48" || record.Tier != "GA" {
		t.Errorf("record text fields = %q, %q, %q", record.Title, record.Venue, record.Tier)
	}
	if record.UnitPrice != 500_000 || record.Supply != 25 || record.ResalePercent != 30 {
		t.Errorf("record terms = (%d, %d, %d)", record.UnitPrice, record.Supply, record.ResalePercent)
	}
	if record.Sold != 0 {
		t.Errorf("new event Sold = %d, want 0", record.Sold)
	}
	// The deposit moved from the organizer into the event account.
	if deposit := before - h.balance(organizer); deposit != h.balance(eventAddr) {
		t.Errorf("organizer paid %d, event holds %d", deposit, h.balance(eventAddr))
	}
}

func TestCreateEventValidation(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	h.fund(organizer, 1_000_000)

	base := CreateEventArgs{
		Organizer: organizer,
		Nonce:     1,
		Title:     "ok",
		UnitPrice: 100,
		Supply:    10,
	}

	cases := []struct {
		name   string
		mutate func(*CreateEventArgs)
	}{
		{"long title", func(a *CreateEventArgs) { a.Title = strings.Repeat("x", schema.MaxTitleLen+1) }},
		{"long venue", func(a *CreateEventArgs) { a.Venue = strings.Repeat("x", schema.MaxVenueLen+1) }},
		{"long tier", func(a *CreateEventArgs) { a.Tier = strings.Repeat("x", schema.MaxTierLen+1) }},
		{"zero supply", func(a *CreateEventArgs) { a.Supply = 0 }},
		{"excessive resale percent", func(a *CreateEventArgs) { a.ResalePercent = schema.MaxResalePercent + 1 }},
	}
	for _, tc := range cases {
		args := base
		tc.mutate(&args)
		if err := h.exec(InstrCreateEvent, &args, orgKey); !IsCode(err, CodeInvalidArgument) {
			t.Errorf("%s: error = %v, want %s", tc.name, err, CodeInvalidArgument)
		}
	}
}

func TestCreateEventRequiresOrganizerSignature(t *testing.T) {
	h := newHarness(t)
	_, organizer := testKey(t, 1)
	otherKey, other := testKey(t, 2)
	h.fund(other, 1_000_000)

	err := h.exec(InstrCreateEvent, &CreateEventArgs{
		Organizer: organizer,
		Nonce:     1,
		Title:     "ok",
		UnitPrice: 100,
		Supply:    10,
	}, otherKey)
	if !IsCode(err, CodeUnauthorized) {
		t.Errorf("error = %v, want %s", err, CodeUnauthorized)
	}
}

func TestCreateEventNonceReuseCollides(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	h.fund(organizer, 10_000_000)

	h.createEvent(orgKey, organizer, 7, 100, 10, 0)
	err := h.exec(InstrCreateEvent, &CreateEventArgs{
		Organizer: organizer,
		Nonce:     7,
		Title:     "different title, same address",
		UnitPrice: 999,
		Supply:    1,
	}, orgKey)
	if !IsCode(err, CodeAccountCollision) {
		t.Errorf("error = %v, want %s", err, CodeAccountCollision)
	}
}

func TestBuyTicketPrimarySale(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	buyerKey, buyer := testKey(t, 2)
	h.fund(organizer, 10_000_000)
	h.fund(buyer, 10_000_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 500_000, 2, 30)
	orgBefore := h.balance(organizer)

	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: buyer}, buyerKey)

	if got := h.balance(organizer) - orgBefore; got != 500_000 {
		t.Errorf("organizer received %d, want 500000", got)
	}
	if got := h.eventRecord(eventAddr).Sold; got != 1 {
		t.Errorf("Sold = %d, want 1", got)
	}

	mintAddr := address.DeriveTicketMint(eventAddr, 0)
	mint := h.mintRecord(mintAddr)
	if mint.Event != eventAddr || mint.Index != 0 {
		t.Errorf("mint identity = (%s, %d)", mint.Event.Short(), mint.Index)
	}
	if mint.Minted != 1 || !mint.AuthorityRevoked {
		t.Errorf("mint state = (minted %d, revoked %v), want (1, true)", mint.Minted, mint.AuthorityRevoked)
	}
	if want := address.DeriveMintAuthority(eventAddr, 0); mint.Authority != want {
		t.Errorf("mint authority = %s, want %s", mint.Authority.Short(), want.Short())
	}
	if got := h.holdingAmount(mintAddr, buyer); got != 1 {
		t.Errorf("buyer holding = %d, want 1", got)
	}
}

func TestBuyTicketOrganizerAsBuyerConservesCurrency(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	h.fund(organizer, 10_000_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 500_000, 2, 30)
	orgBefore := h.balance(organizer)

	// The sale price round-trips to the organizer; only the new
	// account deposits leave their wallet.
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: organizer}, orgKey)

	mintAddr := address.DeriveTicketMint(eventAddr, 0)
	deposits := h.balance(mintAddr) + h.balance(address.DeriveHolding(mintAddr, organizer))
	if got := orgBefore - h.balance(organizer); got != deposits {
		t.Errorf("organizer paid %d, want %d (deposits only)", got, deposits)
	}
	if got := h.holdingAmount(mintAddr, organizer); got != 1 {
		t.Errorf("organizer holding = %d, want 1", got)
	}
	if got := h.totalBalance(); got != h.credited {
		t.Errorf("total ledger balance = %d, want %d", got, h.credited)
	}
}

func TestBuyTicketAssignsSequentialIndexes(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	aliceKey, alice := testKey(t, 2)
	bobKey, bob := testKey(t, 3)
	h.fund(organizer, 10_000_000)
	h.fund(alice, 10_000_000)
	h.fund(bob, 10_000_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 1_000, 3, 0)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: alice}, aliceKey)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: bob}, bobKey)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: alice}, aliceKey)

	for index, holder := range []address.Address{alice, bob, alice} {
		mintAddr := address.DeriveTicketMint(eventAddr, uint32(index))
		if got := h.mintRecord(mintAddr).Index; got != uint32(index) {
			t.Errorf("mint %d recorded index %d", index, got)
		}
		if got := h.holdingAmount(mintAddr, holder); got != 1 {
			t.Errorf("mint %d holding = %d, want 1", index, got)
		}
	}
	if got := h.eventRecord(eventAddr).Sold; got != 3 {
		t.Errorf("Sold = %d, want 3", got)
	}
}

func TestBuyTicketSoldOut(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	buyerKey, buyer := testKey(t, 2)
	h.fund(organizer, 10_000_000)
	h.fund(buyer, 10_000_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 1_000, 1, 0)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: buyer}, buyerKey)

	err := h.exec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: buyer}, buyerKey)
	if !IsCode(err, CodeSoldOut) {
		t.Errorf("error = %v, want %s", err, CodeSoldOut)
	}
}

func TestBuyTicketInsufficientFundsLeavesStateUntouched(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	buyerKey, buyer := testKey(t, 2)
	h.fund(organizer, 10_000_000)
	// Covers the price but not the two storage deposits.
	h.fund(buyer, 500_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 500_000, 5, 0)
	orgBefore := h.balance(organizer)

	err := h.exec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: buyer}, buyerKey)
	if !IsCode(err, CodeInsufficientFunds) {
		t.Fatalf("error = %v, want %s", err, CodeInsufficientFunds)
	}
	if got := h.eventRecord(eventAddr).Sold; got != 0 {
		t.Errorf("Sold = %d after rejected purchase", got)
	}
	if h.balance(organizer) != orgBefore {
		t.Errorf("organizer balance moved on rejected purchase")
	}
	if h.balance(buyer) != 500_000 {
		t.Errorf("buyer balance moved on rejected purchase")
	}
	if h.exists(address.DeriveTicketMint(eventAddr, 0)) {
		t.Errorf("mint account created by rejected purchase")
	}
}

func TestBuyTicketUnknownEvent(t *testing.T) {
	h := newHarness(t)
	buyerKey, buyer := testKey(t, 2)
	h.fund(buyer, 10_000_000)

	_, stranger := testKey(t, 9)
	err := h.exec(InstrBuyTicket, &BuyTicketArgs{
		Event: address.DeriveEvent(stranger, 1),
		Buyer: buyer,
	}, buyerKey)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("error = %v, want %s", err, CodeInvalidArgument)
	}
}

// listedTicket is the common marketplace fixture: an event, one ticket
// bought by the seller, and an open listing at the given asking price.
func listedTicket(t *testing.T, h *harness, askingPrice uint64, pct uint8) (eventAddr, mintAddr, listingAddr address.Address, orgKey, sellerKey ed25519.PrivateKey, organizer, seller address.Address) {
	t.Helper()
	orgKey, organizer = testKey(t, 1)
	sellerKey, seller = testKey(t, 2)
	h.fund(organizer, 10_000_000)
	h.fund(seller, 10_000_000)

	eventAddr = h.createEvent(orgKey, organizer, 1, 500_000, 2, pct)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: seller}, sellerKey)
	mintAddr = address.DeriveTicketMint(eventAddr, 0)

	h.mustExec(InstrListForResale, &ListForResaleArgs{
		Event:       eventAddr,
		Mint:        mintAddr,
		Seller:      seller,
		AskingPrice: askingPrice,
	}, sellerKey)
	listingAddr = address.DeriveListing(eventAddr, mintAddr, seller)
	return eventAddr, mintAddr, listingAddr, orgKey, sellerKey, organizer, seller
}

func TestListForResaleMovesUnitToEscrow(t *testing.T) {
	h := newHarness(t)
	eventAddr, mintAddr, listingAddr, _, _, _, seller := listedTicket(t, h, 1_000_000, 30)

	if got := h.holdingAmount(mintAddr, seller); got != 0 {
		t.Errorf("seller holding = %d, want 0", got)
	}

	account, err := h.led.Account(context.Background(), listingAddr)
	if err != nil {
		t.Fatalf("Account(listing): %v", err)
	}
	listing, err := schema.DecodeListing(account.Data)
	if err != nil {
		t.Fatalf("DecodeListing: %v", err)
	}
	if listing.Event != eventAddr || listing.Mint != mintAddr || listing.Seller != seller {
		t.Errorf("listing identity = (%s, %s, %s)",
			listing.Event.Short(), listing.Mint.Short(), listing.Seller.Short())
	}
	if listing.AskingPrice != 1_000_000 {
		t.Errorf("AskingPrice = %d", listing.AskingPrice)
	}
	if listing.Escrow != address.DeriveEscrow(listingAddr) {
		t.Errorf("Escrow = %s, want derived escrow", listing.Escrow.Short())
	}

	escrow, err := h.led.Account(context.Background(), listing.Escrow)
	if err != nil {
		t.Fatalf("Account(escrow): %v", err)
	}
	escrowHolding, err := schema.DecodeHolding(escrow.Data)
	if err != nil {
		t.Fatalf("DecodeHolding: %v", err)
	}
	if escrowHolding.Holder != listingAddr || escrowHolding.Amount != 1 {
		t.Errorf("escrow holding = (%s, %d), want (listing, 1)",
			escrowHolding.Holder.Short(), escrowHolding.Amount)
	}
}

func TestListForResaleRequiresHolder(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	buyerKey, buyer := testKey(t, 2)
	strangerKey, stranger := testKey(t, 3)
	h.fund(organizer, 10_000_000)
	h.fund(buyer, 10_000_000)
	h.fund(stranger, 10_000_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 1_000, 2, 0)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: buyer}, buyerKey)
	mintAddr := address.DeriveTicketMint(eventAddr, 0)

	err := h.exec(InstrListForResale, &ListForResaleArgs{
		Event:       eventAddr,
		Mint:        mintAddr,
		Seller:      stranger,
		AskingPrice: 5_000,
	}, strangerKey)
	if !IsCode(err, CodeUnauthorized) {
		t.Errorf("non-holder listing error = %v, want %s", err, CodeUnauthorized)
	}
}

func TestListForResaleRejectsZeroPrice(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	buyerKey, buyer := testKey(t, 2)
	h.fund(organizer, 10_000_000)
	h.fund(buyer, 10_000_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 1_000, 2, 0)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: buyer}, buyerKey)

	err := h.exec(InstrListForResale, &ListForResaleArgs{
		Event:       eventAddr,
		Mint:        address.DeriveTicketMint(eventAddr, 0),
		Seller:      buyer,
		AskingPrice: 0,
	}, buyerKey)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("error = %v, want %s", err, CodeInvalidArgument)
	}
}

func TestListForResaleRejectsForeignMint(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	buyerKey, buyer := testKey(t, 2)
	h.fund(organizer, 10_000_000)
	h.fund(buyer, 10_000_000)

	eventA := h.createEvent(orgKey, organizer, 1, 1_000, 2, 0)
	eventB := h.createEvent(orgKey, organizer, 2, 1_000, 2, 0)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventA, Buyer: buyer}, buyerKey)

	err := h.exec(InstrListForResale, &ListForResaleArgs{
		Event:       eventB,
		Mint:        address.DeriveTicketMint(eventA, 0),
		Seller:      buyer,
		AskingPrice: 5_000,
	}, buyerKey)
	if !IsCode(err, CodeAccountMismatch) {
		t.Errorf("error = %v, want %s", err, CodeAccountMismatch)
	}
}

func TestRelistWhileOpenCollides(t *testing.T) {
	h := newHarness(t)
	eventAddr, mintAddr, _, _, sellerKey, _, seller := listedTicket(t, h, 1_000_000, 0)

	err := h.exec(InstrListForResale, &ListForResaleArgs{
		Event:       eventAddr,
		Mint:        mintAddr,
		Seller:      seller,
		AskingPrice: 2_000_000,
	}, sellerKey)
	// The seller no longer holds the unit; the holding check fires
	// before the address collision would.
	if !IsCode(err, CodeUnauthorized) {
		t.Errorf("error = %v, want %s", err, CodeUnauthorized)
	}
}

func TestBuyResaleSplitsPayment(t *testing.T) {
	h := newHarness(t)
	eventAddr, mintAddr, listingAddr, _, _, organizer, seller := listedTicket(t, h, 1_000_000, 30)
	buyerKey, buyer := testKey(t, 4)
	h.fund(buyer, 10_000_000)

	orgBefore := h.balance(organizer)
	sellerBefore := h.balance(seller)
	treasuryBefore := h.balance(h.treasury)
	buyerBefore := h.balance(buyer)
	listingDeposits := h.balance(listingAddr) + h.balance(address.DeriveEscrow(listingAddr))

	h.mustExec(InstrBuyResale, &BuyResaleArgs{Listing: listingAddr, Buyer: buyer}, buyerKey)

	if got := h.balance(organizer) - orgBefore; got != 300_000 {
		t.Errorf("organizer cut = %d, want 300000", got)
	}
	if got := h.balance(h.treasury) - treasuryBefore; got != 200_000 {
		t.Errorf("platform cut = %d, want 200000", got)
	}
	// The seller collects their cut plus both refunded deposits.
	if got := h.balance(seller) - sellerBefore; got != 500_000+listingDeposits {
		t.Errorf("seller received %d, want %d", got, 500_000+listingDeposits)
	}

	holdingDeposit := h.balance(address.DeriveHolding(mintAddr, buyer))
	if got := buyerBefore - h.balance(buyer); got != 1_000_000+holdingDeposit {
		t.Errorf("buyer paid %d, want %d", got, 1_000_000+holdingDeposit)
	}

	if got := h.holdingAmount(mintAddr, buyer); got != 1 {
		t.Errorf("buyer holding = %d, want 1", got)
	}
	if got := h.holdingAmount(mintAddr, seller); got != 0 {
		t.Errorf("seller holding = %d, want 0", got)
	}
	if h.exists(listingAddr) {
		t.Errorf("listing still open after settlement")
	}
	if h.exists(address.DeriveEscrow(listingAddr)) {
		t.Errorf("escrow still open after settlement")
	}
	// Event state is untouched by resales.
	if got := h.eventRecord(eventAddr).Sold; got != 1 {
		t.Errorf("Sold = %d, want 1", got)
	}
}

func TestBuyResaleRejectsSelfTrade(t *testing.T) {
	h := newHarness(t)
	_, _, listingAddr, _, sellerKey, _, seller := listedTicket(t, h, 1_000_000, 30)

	err := h.exec(InstrBuyResale, &BuyResaleArgs{Listing: listingAddr, Buyer: seller}, sellerKey)
	if !IsCode(err, CodeUnauthorized) {
		t.Errorf("error = %v, want %s", err, CodeUnauthorized)
	}
}

func TestBuyResaleOrganizerAsBuyerConservesCurrency(t *testing.T) {
	h := newHarness(t)
	_, mintAddr, listingAddr, orgKey, _, organizer, seller := listedTicket(t, h, 1_000_000, 30)

	orgBefore := h.balance(organizer)
	sellerBefore := h.balance(seller)
	treasuryBefore := h.balance(h.treasury)
	listingDeposits := h.balance(listingAddr) + h.balance(address.DeriveEscrow(listingAddr))

	// The organizer buying from a reseller pays their own cut to
	// themselves; the other cuts must still land intact.
	h.mustExec(InstrBuyResale, &BuyResaleArgs{Listing: listingAddr, Buyer: organizer}, orgKey)

	if got := h.balance(h.treasury) - treasuryBefore; got != 200_000 {
		t.Errorf("platform cut = %d, want 200000", got)
	}
	if got := h.balance(seller) - sellerBefore; got != 500_000+listingDeposits {
		t.Errorf("seller received %d, want %d", got, 500_000+listingDeposits)
	}
	holdingDeposit := h.balance(address.DeriveHolding(mintAddr, organizer))
	if got := orgBefore - h.balance(organizer); got != 700_000+holdingDeposit {
		t.Errorf("organizer paid %d, want %d", got, 700_000+holdingDeposit)
	}
	if got := h.holdingAmount(mintAddr, organizer); got != 1 {
		t.Errorf("organizer holding = %d, want 1", got)
	}
	if got := h.totalBalance(); got != h.credited {
		t.Errorf("total ledger balance = %d, want %d", got, h.credited)
	}
}

func TestBuyResaleAfterEventClosed(t *testing.T) {
	h := newHarness(t)
	eventAddr, _, listingAddr, orgKey, _, _, _ := listedTicket(t, h, 1_000_000, 30)
	buyerKey, buyer := testKey(t, 4)
	h.fund(buyer, 10_000_000)

	h.mustExec(InstrCloseEvent, &CloseEventArgs{Event: eventAddr}, orgKey)

	err := h.exec(InstrBuyResale, &BuyResaleArgs{Listing: listingAddr, Buyer: buyer}, buyerKey)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("error = %v, want %s", err, CodeInvalidArgument)
	}
}

func TestBuyResaleInsufficientFundsLeavesListingOpen(t *testing.T) {
	h := newHarness(t)
	_, mintAddr, listingAddr, _, _, _, seller := listedTicket(t, h, 1_000_000, 30)
	buyerKey, buyer := testKey(t, 4)
	h.fund(buyer, 999_999)

	err := h.exec(InstrBuyResale, &BuyResaleArgs{Listing: listingAddr, Buyer: buyer}, buyerKey)
	if !IsCode(err, CodeInsufficientFunds) {
		t.Fatalf("error = %v, want %s", err, CodeInsufficientFunds)
	}
	if !h.exists(listingAddr) {
		t.Errorf("listing closed by rejected purchase")
	}
	if got := h.holdingAmount(mintAddr, seller); got != 0 {
		t.Errorf("seller holding = %d, want 0", got)
	}
	if h.balance(buyer) != 999_999 {
		t.Errorf("buyer balance moved on rejected purchase")
	}
}

func TestCancelListingReturnsUnit(t *testing.T) {
	h := newHarness(t)
	_, mintAddr, listingAddr, _, sellerKey, _, seller := listedTicket(t, h, 1_000_000, 30)
	sellerBefore := h.balance(seller)
	listingDeposits := h.balance(listingAddr) + h.balance(address.DeriveEscrow(listingAddr))

	h.mustExec(InstrCancelListing, &CancelListingArgs{Listing: listingAddr}, sellerKey)

	if got := h.holdingAmount(mintAddr, seller); got != 1 {
		t.Errorf("seller holding = %d, want 1", got)
	}
	if h.exists(listingAddr) || h.exists(address.DeriveEscrow(listingAddr)) {
		t.Errorf("listing accounts survive cancellation")
	}
	if got := h.balance(seller) - sellerBefore; got != listingDeposits {
		t.Errorf("seller refunded %d, want %d", got, listingDeposits)
	}
}

func TestCancelListingRequiresSeller(t *testing.T) {
	h := newHarness(t)
	_, _, listingAddr, _, _, _, _ := listedTicket(t, h, 1_000_000, 30)
	strangerKey, stranger := testKey(t, 5)
	h.fund(stranger, 1_000)

	err := h.exec(InstrCancelListing, &CancelListingArgs{Listing: listingAddr}, strangerKey)
	if !IsCode(err, CodeUnauthorized) {
		t.Errorf("error = %v, want %s", err, CodeUnauthorized)
	}
}

func TestListingSettlesExactlyOnce(t *testing.T) {
	h := newHarness(t)
	_, _, listingAddr, _, sellerKey, _, _ := listedTicket(t, h, 1_000_000, 30)
	buyerKey, buyer := testKey(t, 4)
	h.fund(buyer, 10_000_000)

	h.mustExec(InstrBuyResale, &BuyResaleArgs{Listing: listingAddr, Buyer: buyer}, buyerKey)

	// Both a second purchase and a late cancellation see no listing.
	err := h.exec(InstrBuyResale, &BuyResaleArgs{Listing: listingAddr, Buyer: buyer}, buyerKey)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("second purchase error = %v, want %s", err, CodeInvalidArgument)
	}
	err = h.exec(InstrCancelListing, &CancelListingArgs{Listing: listingAddr}, sellerKey)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("late cancel error = %v, want %s", err, CodeInvalidArgument)
	}
}

func TestRelistAfterCancel(t *testing.T) {
	h := newHarness(t)
	eventAddr, mintAddr, listingAddr, _, sellerKey, _, seller := listedTicket(t, h, 1_000_000, 0)

	h.mustExec(InstrCancelListing, &CancelListingArgs{Listing: listingAddr}, sellerKey)
	h.mustExec(InstrListForResale, &ListForResaleArgs{
		Event:       eventAddr,
		Mint:        mintAddr,
		Seller:      seller,
		AskingPrice: 2_000_000,
	}, sellerKey)

	account, err := h.led.Account(context.Background(), listingAddr)
	if err != nil {
		t.Fatalf("Account(listing): %v", err)
	}
	listing, err := schema.DecodeListing(account.Data)
	if err != nil {
		t.Fatalf("DecodeListing: %v", err)
	}
	if listing.AskingPrice != 2_000_000 {
		t.Errorf("relisted AskingPrice = %d, want 2000000", listing.AskingPrice)
	}
}

func TestCloseEventRefundsDeposit(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	h.fund(organizer, 10_000_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 1_000, 10, 0)
	h.mustExec(InstrCloseEvent, &CloseEventArgs{Event: eventAddr}, orgKey)

	if h.exists(eventAddr) {
		t.Errorf("event account survives close")
	}
	if got := h.balance(organizer); got != 10_000_000 {
		t.Errorf("organizer balance = %d after close, want full refund to 10000000", got)
	}
}

func TestCloseEventRequiresOrganizer(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	strangerKey, stranger := testKey(t, 2)
	h.fund(organizer, 10_000_000)
	h.fund(stranger, 1_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 1_000, 10, 0)
	err := h.exec(InstrCloseEvent, &CloseEventArgs{Event: eventAddr}, strangerKey)
	if !IsCode(err, CodeUnauthorized) {
		t.Errorf("error = %v, want %s", err, CodeUnauthorized)
	}
}

func TestCloseEventWithOutstandingTickets(t *testing.T) {
	h := newHarness(t)
	orgKey, organizer := testKey(t, 1)
	buyerKey, buyer := testKey(t, 2)
	h.fund(organizer, 10_000_000)
	h.fund(buyer, 10_000_000)

	eventAddr := h.createEvent(orgKey, organizer, 1, 1_000, 5, 0)
	h.mustExec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: buyer}, buyerKey)
	h.mustExec(InstrCloseEvent, &CloseEventArgs{Event: eventAddr}, orgKey)

	// The sold ticket keeps existing; only new sales stop.
	mintAddr := address.DeriveTicketMint(eventAddr, 0)
	if got := h.holdingAmount(mintAddr, buyer); got != 1 {
		t.Errorf("buyer holding = %d after event close, want 1", got)
	}
	err := h.exec(InstrBuyTicket, &BuyTicketArgs{Event: eventAddr, Buyer: buyer}, buyerKey)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("post-close purchase error = %v, want %s", err, CodeInvalidArgument)
	}
}

func TestLifecycleConservesCurrency(t *testing.T) {
	h := newHarness(t)
	eventAddr, _, listingAddr, orgKey, _, _, _ := listedTicket(t, h, 1_000_000, 30)
	buyerKey, buyer := testKey(t, 4)
	h.fund(buyer, 10_000_000)

	h.mustExec(InstrBuyResale, &BuyResaleArgs{Listing: listingAddr, Buyer: buyer}, buyerKey)
	h.mustExec(InstrCloseEvent, &CloseEventArgs{Event: eventAddr}, orgKey)

	if got := h.totalBalance(); got != h.credited {
		t.Errorf("total balance = %d, credited = %d", got, h.credited)
	}
}

func TestUnknownInstruction(t *testing.T) {
	h := newHarness(t)
	key, wallet := testKey(t, 1)
	h.fund(wallet, 1_000)

	err := h.exec("mint_unbacked", &CloseEventArgs{Event: wallet}, key)
	if !IsCode(err, CodeInvalidArgument) {
		t.Errorf("error = %v, want %s", err, CodeInvalidArgument)
	}
}
