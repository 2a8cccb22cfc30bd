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

// Package session holds the wallet's per-topic state: the single pairing
// established from the out-of-band URI and the registry of settled
// sessions keyed by their derived topics.
package session

import (
	"fmt"

	"github.com/wcwallet-project/wcwallet/crypto/keys"
	"github.com/wcwallet-project/wcwallet/relay"
)

// Session is a settled dApp-wallet binding: the derived topic, the relay
// subscription listening on it, and the key agreement outcome.
type Session struct {
	// Topic is hex(SHA-256(sym_key)); see keys.SessionKey.Topic.
	Topic string

	// SubscriptionID is the relay's opaque handle for the topic
	// subscription, released on delete.
	SubscriptionID relay.SubscriptionID

	// Key carries the symmetric key and the wallet's ephemeral public key.
	Key *keys.SessionKey
}

// String implements fmt.Stringer; the session key renders redacted.
func (s Session) String() string {
	return fmt.Sprintf("Session{topic: %s, subscription_id: %s, key: %s}",
		s.Topic, s.SubscriptionID, s.Key)
}
