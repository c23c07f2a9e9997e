// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Each derivation
// family has its own key, so identical seed bytes produce unrelated
// addresses in different families.
type domainKey [32]byte

// Domain separation keys. These are fixed constants — changing one
// moves every address in that family, orphaning all existing accounts.
// The byte values are the ASCII encoding of the domain name,
// zero-padded to 32 bytes, so the keys are inspectable in hex dumps
// without sacrificing any cryptographic property (BLAKE3 keyed mode
// treats the key as an opaque 32-byte value).
var (
	eventDomainKey = domainKey{
		't', 'i', 'c', 'k', 'e', 't', 'c', 'h', 'a', 'i', 'n', '.',
		'e', 'v', 'e', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	ticketMintDomainKey = domainKey{
		't', 'i', 'c', 'k', 'e', 't', 'c', 'h', 'a', 'i', 'n', '.',
		't', 'i', 'c', 'k', 'e', 't', '-', 'm', 'i', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	mintAuthorityDomainKey = domainKey{
		't', 'i', 'c', 'k', 'e', 't', 'c', 'h', 'a', 'i', 'n', '.',
		'm', 'i', 'n', 't', '-', 'a', 'u', 't', 'h', 'o', 'r', 'i', 't', 'y', 0, 0, 0, 0, 0, 0,
	}

	listingDomainKey = domainKey{
		't', 'i', 'c', 'k', 'e', 't', 'c', 'h', 'a', 'i', 'n', '.',
		'l', 'i', 's', 't', 'i', 'n', 'g', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	escrowDomainKey = domainKey{
		't', 'i', 'c', 'k', 'e', 't', 'c', 'h', 'a', 'i', 'n', '.',
		'e', 's', 'c', 'r', 'o', 'w', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	holdingDomainKey = domainKey{
		't', 'i', 'c', 'k', 'e', 't', 'c', 'h', 'a', 'i', 'n', '.',
		'h', 'o', 'l', 'd', 'i', 'n', 'g', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// DeriveEvent returns the event account address for an organizer and a
// creation nonce. One organizer creates many events by choosing fresh
// nonces; a third party cannot produce an address in another
// organizer's family.
func DeriveEvent(organizer Address, nonce uint64) Address {
	seed := make([]byte, 0, 40)
	seed = append(seed, organizer[:]...)
	seed = binary.LittleEndian.AppendUint64(seed, nonce)
	return keyedHash(eventDomainKey, seed)
}

// DeriveTicketMint returns the ticket mint address for the index-th
// sale of an event. The index is the event's sold counter at mint
// time, so every sale gets its own mint.
func DeriveTicketMint(event Address, index uint32) Address {
	return keyedHash(ticketMintDomainKey, eventIndexSeed(event, index))
}

// DeriveMintAuthority returns the mint-authority address co-derived
// with a ticket mint. No private key exists for it; only program logic
// can act as this authority.
func DeriveMintAuthority(event Address, index uint32) Address {
	return keyedHash(mintAuthorityDomainKey, eventIndexSeed(event, index))
}

// DeriveListing returns the listing address for a (event, mint,
// seller) triple. The seller is part of the seed, so one seller cannot
// hold two live listings for the same ticket: the second create lands
// on the same address and collides.
func DeriveListing(event, mint, seller Address) Address {
	seed := make([]byte, 0, 96)
	seed = append(seed, event[:]...)
	seed = append(seed, mint[:]...)
	seed = append(seed, seller[:]...)
	return keyedHash(listingDomainKey, seed)
}

// DeriveEscrow returns the escrow holding address for a listing. The
// escrow custodies the listed ticket between listing and sale or
// cancellation.
func DeriveEscrow(listing Address) Address {
	return keyedHash(escrowDomainKey, listing[:])
}

// DeriveHolding returns the associated holding account address for a
// (mint, holder) pair. Holder is a wallet address for user holdings,
// or a listing address for the escrow holding.
func DeriveHolding(mint, holder Address) Address {
	seed := make([]byte, 0, 64)
	seed = append(seed, mint[:]...)
	seed = append(seed, holder[:]...)
	return keyedHash(holdingDomainKey, seed)
}

// eventIndexSeed builds the fixed-width seed shared by the ticket-mint
// and mint-authority derivations.
func eventIndexSeed(event Address, index uint32) []byte {
	seed := make([]byte, 0, 36)
	seed = append(seed, event[:]...)
	seed = binary.LittleEndian.AppendUint32(seed, index)
	return seed
}

// keyedHash computes the BLAKE3 keyed hash of seed under the given
// domain key.
func keyedHash(key domainKey, seed []byte) Address {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("address: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(seed)
	var addr Address
	copy(addr[:], hasher.Sum(nil))
	return addr
}
