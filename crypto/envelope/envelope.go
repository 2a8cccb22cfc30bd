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

// Package envelope implements the type-tagged binary envelope wrapping
// every relay payload.
//
// Before base64 encoding the frame layout is:
//
//	Type 0: [0x00 | iv(12) | sealed]
//	Type 1: [0x01 | sender_pub(32) | iv(12) | sealed]
//
// where sealed is ChaCha20-Poly1305 ciphertext with the 16-byte
// authentication tag appended and no additional authenticated data.
package envelope

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/chacha20poly1305"
)

// Envelope type bytes as they appear on the wire.
const (
	Type0 byte = 0x00
	Type1 byte = 0x01
)

const (
	typeLength   = 1
	ivLength     = chacha20poly1305.NonceSize // 12
	pubKeyLength = 32
	symKeyLength = chacha20poly1305.KeySize // 32
)

var (
	// ErrExpectedType0 is returned when a Type 1 envelope reaches the
	// Type 0 decoder.
	ErrExpectedType0 = errors.New("expected envelope type 0")

	// ErrInvalidKeyLength is returned when the symmetric key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("symmetric key must be 32 bytes")
)

// Params is the decoded view of an envelope frame before decryption.
type Params struct {
	// EnvelopeType is Type0 or Type1.
	EnvelopeType byte

	// SenderPublicKey is set only for Type 1 envelopes.
	SenderPublicKey []byte

	// IV is the 12-byte AEAD nonce.
	IV []byte

	// Sealed is the ciphertext with the appended authentication tag.
	Sealed []byte
}

// ParseDecoded splits a base64-decoded frame into its envelope fields.
// Unknown leading type bytes are rejected.
func ParseDecoded(data []byte) (*Params, error) {
	if len(data) < typeLength {
		return nil, errors.New("envelope is empty")
	}

	switch data[0] {
	case Type0:
		sealedIndex := typeLength + ivLength
		if len(data) < sealedIndex {
			return nil, fmt.Errorf("type 0 envelope too short: %d bytes", len(data))
		}
		return &Params{
			EnvelopeType: Type0,
			IV:           data[typeLength:sealedIndex],
			Sealed:       data[sealedIndex:],
		}, nil

	case Type1:
		ivIndex := typeLength + pubKeyLength
		sealedIndex := ivIndex + ivLength
		if len(data) < sealedIndex {
			return nil, fmt.Errorf("type 1 envelope too short: %d bytes", len(data))
		}
		return &Params{
			EnvelopeType:    Type1,
			SenderPublicKey: data[typeLength:ivIndex],
			IV:              data[ivIndex:sealedIndex],
			Sealed:          data[sealedIndex:],
		}, nil

	default:
		return nil, fmt.Errorf("invalid envelope type: %d", data[0])
	}
}

// EncryptAndEncodeType0 seals the plaintext with a fresh random nonce and
// returns the standard-base64 Type 0 frame.
func EncryptAndEncodeType0(plaintext, key []byte) (string, error) {
	iv, sealed, err := seal(plaintext, key)
	if err != nil {
		return "", err
	}
	return Encode(&Params{EnvelopeType: Type0, IV: iv, Sealed: sealed})
}

// EncryptAndEncodeType1 seals the plaintext and prefixes the sender's
// 32-byte public key per the Type 1 layout.
func EncryptAndEncodeType1(plaintext []byte, senderPublicKey [32]byte, key []byte) (string, error) {
	iv, sealed, err := seal(plaintext, key)
	if err != nil {
		return "", err
	}
	return Encode(&Params{
		EnvelopeType:    Type1,
		SenderPublicKey: senderPublicKey[:],
		IV:              iv,
		Sealed:          sealed,
	})
}

// DecodeAndDecryptType0 reverses EncryptAndEncodeType0. It fails on
// malformed base64, a non-zero envelope type byte, AEAD verification
// failure, or plaintext that is not valid UTF-8.
func DecodeAndDecryptType0(msg string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(msg)
	if err != nil {
		return "", fmt.Errorf("failed to decode envelope: %w", err)
	}

	decoded, err := ParseDecoded(data)
	if err != nil {
		return "", err
	}
	if decoded.EnvelopeType == Type1 {
		return "", ErrExpectedType0
	}

	plaintext, err := open(decoded.IV, decoded.Sealed, key)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", errors.New("decrypted payload is not valid UTF-8")
	}

	return string(plaintext), nil
}

// Encode serializes the envelope fields into the standard-base64 frame.
func Encode(params *Params) (string, error) {
	if len(params.IV) != ivLength {
		return "", fmt.Errorf("iv must be %d bytes, got %d", ivLength, len(params.IV))
	}

	var frame []byte
	switch params.EnvelopeType {
	case Type0:
		frame = make([]byte, 0, typeLength+ivLength+len(params.Sealed))
		frame = append(frame, Type0)
	case Type1:
		if len(params.SenderPublicKey) != pubKeyLength {
			return "", fmt.Errorf("sender public key must be %d bytes, got %d",
				pubKeyLength, len(params.SenderPublicKey))
		}
		frame = make([]byte, 0, typeLength+pubKeyLength+ivLength+len(params.Sealed))
		frame = append(frame, Type1)
		frame = append(frame, params.SenderPublicKey...)
	default:
		return "", fmt.Errorf("invalid envelope type: %d", params.EnvelopeType)
	}

	frame = append(frame, params.IV...)
	frame = append(frame, params.Sealed...)

	return base64.StdEncoding.EncodeToString(frame), nil
}

// seal encrypts the plaintext under a freshly generated random nonce.
// Nonces are never caller-supplied.
func seal(plaintext, key []byte) (iv, sealed []byte, err error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return iv, aead.Seal(nil, iv, plaintext, nil), nil
}

func open(iv, sealed, key []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != symKeyLength {
		return nil, ErrInvalidKeyLength
	}
	return chacha20poly1305.New(key)
}
