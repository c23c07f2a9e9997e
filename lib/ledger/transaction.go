// Copyright 2026 The TicketChain Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"crypto/ed25519"
	"fmt"

	"github.com/ticketchain-foundation/ticketchain/lib/address"
	"github.com/ticketchain-foundation/ticketchain/lib/codec"
)

// Message is the signed portion of a transaction: which program, which
// instruction, and the CBOR-encoded arguments. Signatures cover the
// canonical CBOR encoding of this struct, so any re-encoding by a
// relay or wallet produces byte-identical signing input.
type Message struct {
	// Program is the registered name of the program to execute.
	Program string `cbor:"1,keyasint"`

	// Instruction is the program-defined instruction name.
	Instruction string `cbor:"2,keyasint"`

	// Payload is the CBOR-encoded instruction arguments. The
	// substrate never decodes it; only the program does.
	Payload codec.RawMessage `cbor:"3,keyasint"`
}

// Transaction is one atomic instruction submission: a message plus the
// signatures authorizing it. Signers and Signatures are parallel
// slices.
//
// The substrate provides no replay protection; idempotency comes from
// deterministic addressing (re-submitting a create collides on the
// derived address). A deployment needing at-most-once semantics for
// pure transfers would layer a nonce into the instruction payload.
type Transaction struct {
	Message    Message
	Signers    []address.Address
	Signatures [][]byte
}

// NewTransaction builds an unsigned transaction for the given program
// instruction, encoding args to the canonical payload bytes.
func NewTransaction(program, instruction string, args any) (*Transaction, error) {
	payload, err := codec.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("ledger: encoding %s.%s payload: %w", program, instruction, err)
	}
	return &Transaction{
		Message: Message{
			Program:     program,
			Instruction: instruction,
			Payload:     payload,
		},
	}, nil
}

// Sign appends a signature by the given private key over the message
// bytes. Call once per required signer; order does not matter.
func (t *Transaction) Sign(key ed25519.PrivateKey) error {
	signer, err := address.FromPublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		return err
	}
	message, err := t.messageBytes()
	if err != nil {
		return err
	}
	t.Signers = append(t.Signers, signer)
	t.Signatures = append(t.Signatures, ed25519.Sign(key, message))
	return nil
}

// messageBytes returns the canonical signing input.
func (t *Transaction) messageBytes() ([]byte, error) {
	data, err := codec.Marshal(&t.Message)
	if err != nil {
		return nil, fmt.Errorf("ledger: encoding message: %w", err)
	}
	return data, nil
}

// verify checks every attached signature and returns the set of
// addresses proven to have signed.
func (t *Transaction) verify() (map[address.Address]bool, error) {
	if len(t.Signers) != len(t.Signatures) {
		return nil, fmt.Errorf("%w: %d signers, %d signatures", ErrBadSignature, len(t.Signers), len(t.Signatures))
	}
	message, err := t.messageBytes()
	if err != nil {
		return nil, err
	}
	signed := make(map[address.Address]bool, len(t.Signers))
	for i, signer := range t.Signers {
		if !ed25519.Verify(signer.PublicKey(), message, t.Signatures[i]) {
			return nil, fmt.Errorf("%w: signer %s", ErrBadSignature, signer.Short())
		}
		signed[signer] = true
	}
	return signed, nil
}
