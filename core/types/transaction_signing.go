// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/polyjuice/go-polyjuice/crypto/ckbhash"
	"github.com/polyjuice/go-polyjuice/params"
)

// SigningMode selects how the transaction digest is turned into the message
// that is actually signed. The choice changes the signature, so the same mode
// must be used to build the message and to recover the sender.
type SigningMode uint8

const (
	// ModePrefixed wraps the digest as an Ethereum signed text message,
	// the form wallets produce for personal_sign.
	ModePrefixed SigningMode = iota

	// ModeUnprefixed signs the digest as is.
	ModeUnprefixed
)

func (m SigningMode) String() string {
	switch m {
	case ModePrefixed:
		return "prefixed"
	case ModeUnprefixed:
		return "unprefixed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// ParseSigningMode parses the textual name of a signing mode.
func ParseSigningMode(s string) (SigningMode, error) {
	switch s {
	case "", "prefixed":
		return ModePrefixed, nil
	case "unprefixed":
		return ModeUnprefixed, nil
	}
	return 0, fmt.Errorf("unknown signing mode %q", s)
}

// SigningMessage builds the message to sign for tx. The digest is the
// content hash of the rollup type hash, the sender and receiver account
// script hashes and the serialized transaction; in prefixed mode it is
// additionally wrapped as "\x19Ethereum Signed Message:\n32" and hashed
// with keccak256.
func SigningMessage(rollupTypeHash, sender, receiver common.Hash, tx *RawL2Transaction, mode SigningMode) common.Hash {
	digest := ckbhash.Sum(rollupTypeHash.Bytes(), sender.Bytes(), receiver.Bytes(), tx.Serialize())
	if mode == ModeUnprefixed {
		return digest
	}
	return common.BytesToHash(accounts.TextHash(digest.Bytes()))
}

// Signer builds signing messages for one rollup in one signing mode.
type Signer struct {
	rollupTypeHash common.Hash
	mode           SigningMode
}

// NewSigner returns a signer for the rollup described by cfg.
func NewSigner(cfg *params.RollupConfig, mode SigningMode) Signer {
	return Signer{rollupTypeHash: cfg.RollupTypeHash, mode: mode}
}

// Mode returns the signing mode.
func (s Signer) Mode() SigningMode { return s.mode }

// Hash returns the message to be signed for tx sent from the account with
// script hash sender to the account with script hash receiver.
func (s Signer) Hash(tx *RawL2Transaction, sender, receiver common.Hash) common.Hash {
	return SigningMessage(s.rollupTypeHash, sender, receiver, tx, s.mode)
}

// PackSignature checks a 65 byte recoverable signature and normalises its
// recovery id to 0 or 1. Wallets emit 27 or 28.
func PackSignature(sig []byte) ([]byte, error) {
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: wrong size %d", ErrInvalidSig, len(sig))
	}
	out := common.CopyBytes(sig)
	if out[crypto.RecoveryIDOffset] >= 27 {
		out[crypto.RecoveryIDOffset] -= 27
	}
	if out[crypto.RecoveryIDOffset] > 1 {
		return nil, fmt.Errorf("%w: recovery id %d", ErrInvalidSig, sig[crypto.RecoveryIDOffset])
	}
	return out, nil
}

// SignTx signs tx with prv and returns the signed transaction.
func SignTx(tx *RawL2Transaction, s Signer, prv *ecdsa.PrivateKey, sender, receiver common.Hash) (*L2Transaction, error) {
	h := s.Hash(tx, sender, receiver)
	sig, err := crypto.Sign(h[:], prv)
	if err != nil {
		return nil, err
	}
	return WithSignature(tx, sig)
}

// WithSignature attaches an externally produced signature to tx.
func WithSignature(tx *RawL2Transaction, sig []byte) (*L2Transaction, error) {
	packed, err := PackSignature(sig)
	if err != nil {
		return nil, err
	}
	return &L2Transaction{Raw: *tx, Signature: packed}, nil
}

// Sender recovers the Ethereum address that signed tx.
func Sender(s Signer, tx *L2Transaction, sender, receiver common.Hash) (common.Address, error) {
	sig, err := PackSignature(tx.Signature)
	if err != nil {
		return common.Address{}, err
	}
	h := s.Hash(&tx.Raw, sender, receiver)
	pub, err := crypto.SigToPub(h[:], sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
