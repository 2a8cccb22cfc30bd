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

package relay

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
)

// AuthTokenTTL is the validity window of a relay credential.
const AuthTokenTTL = time.Hour

// ed25519Multicodec prefixes a raw ed25519 public key in the did:key
// encoding.
var ed25519Multicodec = []byte{0xed, 0x01}

// NewAuthToken mints the JWT presented to the relay at connect time. The
// credential is self-issued: a fresh ed25519 keypair signs claims whose
// issuer is the keypair's own did:key, with the relay URL as audience and
// a random nonce as subject.
func NewAuthToken(audience string) (string, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate auth keypair: %w", err)
	}

	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate auth nonce: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    DIDKey(pub),
		Subject:   hex.EncodeToString(nonce[:]),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AuthTokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(priv)
	if err != nil {
		return "", fmt.Errorf("failed to sign auth token: %w", err)
	}

	return token, nil
}

// DIDKey encodes an ed25519 public key as a did:key identifier:
// the multicodec-prefixed key, base58btc-encoded with the "z" multibase
// marker.
func DIDKey(pub ed25519.PublicKey) string {
	prefixed := append(append([]byte{}, ed25519Multicodec...), pub...)
	return "did:key:z" + base58.Encode(prefixed)
}
