// WCWallet - WalletConnect Sign Wallet Responder
// Copyright (C) 2025 wcwallet-project
//
// This file is part of WCWallet.
//
// WCWallet is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// WCWallet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with WCWallet. If not, see <https://www.gnu.org/licenses/>.

package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/hkdf"
)

// SymKeyLength is the session symmetric key size in bytes.
const SymKeyLength = 32

// SessionKey is the outcome of the X25519 key agreement with a proposer:
// the HKDF-expanded shared secret and the wallet's ephemeral public key.
//
// The symmetric key never appears in formatted output.
type SessionKey struct {
	symKey    [SymKeyLength]byte
	publicKey [PublicKeyLength]byte
}

// NewSessionKey runs the full key agreement against the sender's public
// key: a fresh ephemeral X25519 key pair, the raw ECDH shared secret, and
// an HKDF-SHA256 expansion (no salt, empty info) to 32 bytes.
func NewSessionKey(senderPublicKey [PublicKeyLength]byte) (*SessionKey, error) {
	kp, err := GenerateX25519KeyPair()
	if err != nil {
		return nil, err
	}
	return DeriveSessionKey(kp, senderPublicKey)
}

// NewSessionKeyFromHex is NewSessionKey for a hex-encoded sender key.
func NewSessionKeyFromHex(senderPublicKeyHex string) (*SessionKey, error) {
	senderPublicKey, err := ParsePublicKeyHex(senderPublicKeyHex)
	if err != nil {
		return nil, err
	}
	return NewSessionKey(senderPublicKey)
}

// DeriveSessionKey completes the key agreement with an existing key pair.
// Both peers derive the identical symmetric key and topic when run with
// swapped roles.
func DeriveSessionKey(kp *X25519KeyPair, senderPublicKey [PublicKeyLength]byte) (*SessionKey, error) {
	ikm, err := kp.DeriveSharedSecret(senderPublicKey[:])
	if err != nil {
		return nil, err
	}

	sk := &SessionKey{publicKey: kp.PublicKeyBytes()}

	hk := hkdf.New(sha256.New, ikm, nil, nil)
	if _, err := hk.Read(sk.symKey[:]); err != nil {
		return nil, fmt.Errorf("failed to derive symmetric key: %w", err)
	}

	return sk, nil
}

// SymmetricKey returns the 32-byte session symmetric key.
func (sk *SessionKey) SymmetricKey() [SymKeyLength]byte {
	return sk.symKey
}

// PublicKey returns the wallet's ephemeral X25519 public key.
func (sk *SessionKey) PublicKey() [PublicKeyLength]byte {
	return sk.publicKey
}

// PublicKeyHex returns the wallet's ephemeral public key hex-encoded, as
// sent in the proposal response.
func (sk *SessionKey) PublicKeyHex() string {
	return hex.EncodeToString(sk.publicKey[:])
}

// Topic derives the session topic: the hex-encoded SHA-256 of the
// symmetric key. Both sides of the exchange arrive at the same topic
// independently.
func (sk *SessionKey) Topic() string {
	sum := sha256.Sum256(sk.symKey[:])
	return hex.EncodeToString(sum[:])
}

// String implements fmt.Stringer with the symmetric key redacted.
func (sk SessionKey) String() string {
	return fmt.Sprintf("SessionKey{sym_key: ********, public_key: %s}",
		hex.EncodeToString(sk.publicKey[:]))
}
