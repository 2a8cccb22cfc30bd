// Copyright (C) 2025 wcwallet-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package session

import (
	"fmt"
	"sync"

	"github.com/wcwallet-project/wcwallet/relay"
)

// Pairing is the initial rendezvous channel established from the pairing
// URI. Immutable after construction except for the one-shot terminator.
// The process maintains at most one pairing; tearing it down ends the
// event loop.
type Pairing struct {
	// Topic is the 32-byte hex identifier from the pairing URI.
	Topic string

	// SubscriptionID is the relay handle for the pairing topic.
	SubscriptionID relay.SubscriptionID

	symKey [32]byte

	terminateOnce sync.Once
	terminated    chan struct{}
}

// NewPairing creates the pairing for a topic and its symmetric key.
func NewPairing(topic string, symKey [32]byte) *Pairing {
	return &Pairing{
		Topic:      topic,
		symKey:     symKey,
		terminated: make(chan struct{}),
	}
}

// SymKey returns the pairing symmetric key.
func (p *Pairing) SymKey() [32]byte {
	return p.symKey
}

// Terminate fires the one-shot termination signal. Safe to call more
// than once.
func (p *Pairing) Terminate() {
	p.terminateOnce.Do(func() { close(p.terminated) })
}

// Done returns a channel closed once Terminate has been called.
func (p *Pairing) Done() <-chan struct{} {
	return p.terminated
}

// String implements fmt.Stringer with the symmetric key redacted.
func (p *Pairing) String() string {
	return fmt.Sprintf("Pairing{topic: %s, subscription_id: %s, sym_key: ********}",
		p.Topic, p.SubscriptionID)
}
