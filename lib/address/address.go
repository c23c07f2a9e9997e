// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Address is a 32-byte account address. Wallet addresses are Ed25519
// public keys; program-owned addresses are BLAKE3-derived (see the
// Derive functions). The zero value is not a valid address of either
// kind and is rejected by [Parse].
type Address [32]byte

// Zero is the zero-valued address. Used as the "no address" sentinel
// in records and function signatures.
var Zero Address

// FromPublicKey converts an Ed25519 public key into its wallet
// address. Returns an error if the key is not exactly 32 bytes.
func FromPublicKey(key ed25519.PublicKey) (Address, error) {
	var addr Address
	if len(key) != ed25519.PublicKeySize {
		return addr, fmt.Errorf("address: public key is %d bytes, want %d", len(key), ed25519.PublicKeySize)
	}
	copy(addr[:], key)
	return addr, nil
}

// PublicKey returns the address bytes as an Ed25519 public key. Only
// meaningful for wallet addresses; calling it on a derived address
// yields a key nobody holds the private half of.
func (a Address) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(a[:])
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Zero
}

// String returns the canonical hex encoding (64 characters). This is
// the format used in CLI output, config files, and logs.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Short returns the "tkt-" prefix followed by the first 12 hex
// characters. Used in logs and human-facing listings where the full
// address would drown the line.
func (a Address) Short() string {
	return "tkt-" + hex.EncodeToString(a[:6])
}

// MarshalText implements encoding.TextMarshaler. Addresses serialize
// as hex text in CBOR and JSON.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Parse parses a 64-character hex string into an Address. Rejects the
// zero address: no real account lives there, so a zero address in
// external input is always a caller bug.
func Parse(hexString string) (Address, error) {
	var addr Address
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return addr, fmt.Errorf("address: parsing %q: %w", hexString, err)
	}
	if len(decoded) != 32 {
		return addr, fmt.Errorf("address: %q is %d bytes, want 32", hexString, len(decoded))
	}
	copy(addr[:], decoded)
	if addr.IsZero() {
		return addr, fmt.Errorf("address: zero address is not valid")
	}
	return addr, nil
}
