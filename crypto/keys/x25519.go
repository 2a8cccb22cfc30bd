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

// Package keys implements the X25519 key agreement that bootstraps every
// session: an ephemeral Diffie-Hellman exchange whose HKDF-expanded shared
// secret becomes the session's symmetric key, and whose SHA-256 hash becomes
// the session topic.
package keys

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// PublicKeyLength is the raw X25519 public key size in bytes.
const PublicKeyLength = 32

// X25519KeyPair holds an X25519 private key and its corresponding public key.
type X25519KeyPair struct {
	privateKey *ecdh.PrivateKey
	publicKey  *ecdh.PublicKey
}

// GenerateX25519KeyPair generates a new ephemeral X25519 key pair.
func GenerateX25519KeyPair() (*X25519KeyPair, error) {
	privateKey, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral ECDH key: %w", err)
	}

	return &X25519KeyPair{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

// PublicKeyBytes returns the raw 32-byte public key.
func (kp *X25519KeyPair) PublicKeyBytes() [PublicKeyLength]byte {
	var pub [PublicKeyLength]byte
	copy(pub[:], kp.publicKey.Bytes())
	return pub
}

// DeriveSharedSecret computes the raw 32-byte X25519 ECDH shared secret
// between this key pair and the peer's public key.
func (kp *X25519KeyPair) DeriveSharedSecret(peerPubBytes []byte) ([]byte, error) {
	peerPub, err := ecdh.X25519().NewPublicKey(peerPubBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse peer public key: %w", err)
	}

	shared, err := kp.privateKey.ECDH(peerPub)
	if err != nil {
		return nil, fmt.Errorf("failed to compute shared secret: %w", err)
	}

	return shared, nil
}

// ParsePublicKeyHex decodes a hex-encoded 32-byte X25519 public key.
func ParsePublicKeyHex(s string) ([PublicKeyLength]byte, error) {
	var pub [PublicKeyLength]byte

	raw, err := hex.DecodeString(s)
	if err != nil {
		return pub, fmt.Errorf("failed to decode public key hex: %w", err)
	}
	if len(raw) != PublicKeyLength {
		return pub, fmt.Errorf("public key must be %d bytes, got %d", PublicKeyLength, len(raw))
	}

	copy(pub[:], raw)
	return pub, nil
}
