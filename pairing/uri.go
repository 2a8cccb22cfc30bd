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

// Package pairing parses the out-of-band pairing URI:
//
//	wc:{topic}@{version}?relay-protocol=irn&symKey={hex}
//
// The URI is the only secret exchanged outside the relay; everything
// after it flows through encrypted envelopes.
package pairing

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// SupportedVersion is the protocol version accepted in pairing URIs.
const SupportedVersion = "2"

// SupportedProtocol is the only relay protocol accepted.
const SupportedProtocol = "irn"

const (
	uriScheme    = "wc"
	topicLength  = 64 // hex chars of a 32-byte topic
	symKeyLength = 32
)

// Params are the query parameters consumed from the URI.
type Params struct {
	// RelayProtocol is always "irn".
	RelayProtocol string

	// SymKey is the 32-byte pairing symmetric key.
	SymKey [symKeyLength]byte
}

// Pairing is the parsed rendezvous invitation.
type Pairing struct {
	// Topic is the 64-char hex pairing topic.
	Topic string

	// Version is the protocol version from the URI.
	Version string

	// Params holds the relay protocol and the symmetric key.
	Params Params
}

// String implements fmt.Stringer with the symmetric key redacted.
func (p *Pairing) String() string {
	return fmt.Sprintf("Pairing{topic: %s, version: %s, relay_protocol: %s, sym_key: ********}",
		p.Topic, p.Version, p.Params.RelayProtocol)
}

// Parse validates and decomposes a pairing URI.
func Parse(uri string) (*Pairing, error) {
	rest, ok := strings.CutPrefix(uri, uriScheme+":")
	if !ok {
		return nil, fmt.Errorf("pairing uri must start with %q", uriScheme+":")
	}

	head, query, ok := strings.Cut(rest, "?")
	if !ok {
		return nil, fmt.Errorf("pairing uri has no query parameters")
	}

	topic, version, ok := strings.Cut(head, "@")
	if !ok {
		return nil, fmt.Errorf("pairing uri has no version")
	}
	if version != SupportedVersion {
		return nil, fmt.Errorf("unsupported pairing version: %q", version)
	}
	if len(topic) != topicLength {
		return nil, fmt.Errorf("pairing topic must be %d hex chars, got %d", topicLength, len(topic))
	}
	if _, err := hex.DecodeString(topic); err != nil {
		return nil, fmt.Errorf("pairing topic is not hex: %w", err)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("malformed pairing query: %w", err)
	}

	protocol := values.Get("relay-protocol")
	if protocol == "" {
		return nil, fmt.Errorf("pairing uri is missing relay-protocol")
	}
	if protocol != SupportedProtocol {
		return nil, fmt.Errorf("unsupported relay protocol: %q", protocol)
	}

	symKeyHex := values.Get("symKey")
	if symKeyHex == "" {
		return nil, fmt.Errorf("pairing uri is missing symKey")
	}
	symKey, err := hex.DecodeString(symKeyHex)
	if err != nil {
		return nil, fmt.Errorf("symKey is not hex: %w", err)
	}
	if len(symKey) != symKeyLength {
		return nil, fmt.Errorf("symKey must be %d bytes, got %d", symKeyLength, len(symKey))
	}

	p := &Pairing{
		Topic:   topic,
		Version: version,
		Params:  Params{RelayProtocol: protocol},
	}
	copy(p.Params.SymKey[:], symKey)

	return p, nil
}
