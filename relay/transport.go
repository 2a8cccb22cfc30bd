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

// Package relay provides the boundary to the untrusted relay service:
// the Transport abstraction the protocol engine talks to, a WebSocket
// client implementing it, and the JWT credential minted at connect time.
//
// The relay only forwards opaque envelopes between topic subscribers;
// nothing in this package touches plaintext or keys.
package relay

import (
	"context"
	"time"
)

// SubscriptionID is the relay's opaque handle for a topic subscription.
type SubscriptionID string

// PublishedMessage is an inbound envelope delivered on a subscribed
// topic. Message stays opaque here; decryption happens in the engine.
type PublishedMessage struct {
	// Topic the message was published on.
	Topic string

	// Message is the base64-encoded encrypted envelope.
	Message string

	// Tag is the relay routing tag chosen by the publisher.
	Tag uint32

	// PublishedAt is the relay's publish timestamp in unix milliseconds.
	PublishedAt int64
}

// ConnectionHandler receives connection lifecycle callbacks and inbound
// traffic. Callbacks run on the client's read loop; implementations must
// not block.
type ConnectionHandler interface {
	// Connected is called once the relay connection is established.
	Connected()

	// Disconnected is called when the connection drops; err is nil on a
	// clean close.
	Disconnected(err error)

	// MessageReceived is called for every inbound published message.
	MessageReceived(message PublishedMessage)

	// InboundError reports a failure reading or parsing inbound frames.
	InboundError(err error)

	// OutboundError reports a failure on a fire-and-forget write.
	OutboundError(err error)
}

// Transport is the relay I/O surface consumed by the engine. All methods
// may block on network I/O and may fail; failures surface to the caller.
type Transport interface {
	// Subscribe registers interest in a topic and returns the relay's
	// subscription handle.
	Subscribe(ctx context.Context, topic string) (SubscriptionID, error)

	// Unsubscribe releases a subscription obtained from Subscribe.
	Unsubscribe(ctx context.Context, topic string, id SubscriptionID) error

	// Publish sends an encrypted envelope to a topic with its routing
	// metadata: the numeric tag, the relay-side time-to-live, and the
	// push-notification hint.
	Publish(ctx context.Context, topic, message string, tag uint32, ttl time.Duration, prompt bool) error

	// Close tears the connection down.
	Close() error
}
