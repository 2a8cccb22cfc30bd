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
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockPublish captures one Publish call for test verification.
type MockPublish struct {
	Topic   string
	Message string
	Tag     uint32
	TTL     time.Duration
	Prompt  bool
}

// MockTransport is an in-memory Transport for tests. Every call is
// recorded; custom behavior is injected through the optional Func fields.
type MockTransport struct {
	// SubscribeFunc overrides Subscribe. If nil, a fresh UUID handle is
	// returned.
	SubscribeFunc func(ctx context.Context, topic string) (SubscriptionID, error)

	// UnsubscribeFunc overrides Unsubscribe. If nil, Unsubscribe succeeds.
	UnsubscribeFunc func(ctx context.Context, topic string, id SubscriptionID) error

	// PublishFunc overrides Publish. If nil, Publish succeeds.
	PublishFunc func(ctx context.Context, topic, message string, tag uint32, ttl time.Duration, prompt bool) error

	mu           sync.Mutex
	subscribed   []string
	unsubscribed []string
	published    []MockPublish
	closed       bool
}

// Subscribe implements Transport.
func (m *MockTransport) Subscribe(ctx context.Context, topic string) (SubscriptionID, error) {
	m.mu.Lock()
	m.subscribed = append(m.subscribed, topic)
	m.mu.Unlock()

	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic)
	}
	return SubscriptionID(uuid.NewString()), nil
}

// Unsubscribe implements Transport.
func (m *MockTransport) Unsubscribe(ctx context.Context, topic string, id SubscriptionID) error {
	m.mu.Lock()
	m.unsubscribed = append(m.unsubscribed, topic)
	m.mu.Unlock()

	if m.UnsubscribeFunc != nil {
		return m.UnsubscribeFunc(ctx, topic, id)
	}
	return nil
}

// Publish implements Transport.
func (m *MockTransport) Publish(ctx context.Context, topic, message string, tag uint32, ttl time.Duration, prompt bool) error {
	m.mu.Lock()
	m.published = append(m.published, MockPublish{
		Topic:   topic,
		Message: message,
		Tag:     tag,
		TTL:     ttl,
		Prompt:  prompt,
	})
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, message, tag, ttl, prompt)
	}
	return nil
}

// Close implements Transport.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Subscribed returns the topics passed to Subscribe, in order.
func (m *MockTransport) Subscribed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.subscribed...)
}

// Unsubscribed returns the topics passed to Unsubscribe, in order.
func (m *MockTransport) Unsubscribed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.unsubscribed...)
}

// Published returns the captured publishes, in order.
func (m *MockTransport) Published() []MockPublish {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockPublish{}, m.published...)
}

// Closed reports whether Close was called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
