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

// Package wallet drives the session lifecycle: it pumps inbound relay
// messages, decrypts them with the key registered for their topic,
// dispatches requests to per-method handlers, and publishes encrypted
// responses.
//
// Each inbound message is handled on its own goroutine so a slow handler
// cannot stall the pump; handlers for the same topic may therefore run
// concurrently and must tolerate reordering.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wcwallet-project/wcwallet/crypto/envelope"
	"github.com/wcwallet-project/wcwallet/internal/logger"
	"github.com/wcwallet-project/wcwallet/internal/metrics"
	"github.com/wcwallet-project/wcwallet/relay"
	"github.com/wcwallet-project/wcwallet/rpc"
	"github.com/wcwallet-project/wcwallet/session"
)

// Protocol is the relay protocol the wallet settles sessions on.
const Protocol = "irn"

// sessionExpiry is the expiry sent in wc_sessionSettle: 300_000_000_000,
// which is five minutes counted in nanoseconds (300 s × 10^9).
const sessionExpiry uint64 = 300_000_000_000

// ErrRelayDisconnected is returned by Run when the relay connection drops
// before the pairing is terminated.
var ErrRelayDisconnected = errors.New("relay connection closed")

// Config is the wallet's identity and capability set.
type Config struct {
	// Account is the settled account in chain:network:address form.
	Account string

	// Chains, Methods and Events are the capabilities offered during
	// namespace negotiation.
	Chains  []string
	Methods []string
	Events  []string

	// Metadata describes this wallet to the dApp.
	Metadata rpc.Metadata

	// InboundQueueSize bounds the inbound message queue. Zero means 64.
	InboundQueueSize int
}

// DefaultConfig returns the capabilities the reference wallet offers.
func DefaultConfig() Config {
	return Config{
		Account: "eip155:5:0xBA5BA3955463ADcc7aa3E33bbdfb8A68e0933dD8",
		Chains:  []string{"eip155:1", "eip155:5"},
		Methods: []string{
			"eth_sendTransaction",
			"eth_signTransaction",
			"eth_sign",
			"personal_sign",
			"eth_signTypedData",
		},
		Events: []string{"chainChanged", "accountsChanged"},
		Metadata: rpc.Metadata{
			Name:        "wcwallet",
			Description: "WalletConnect Sign wallet responder",
			URL:         "https://github.com/wcwallet-project/wcwallet",
			Icons:       []string{},
		},
	}
}

// Engine owns the inbound pump and all protocol state: the single
// pairing and the registry of settled sessions.
type Engine struct {
	cfg      Config
	client   relay.Transport
	pairing  *session.Pairing
	sessions *session.Registry
	log      logger.Logger

	inbound   chan relay.PublishedMessage
	closeOnce sync.Once

	// handlers tracks spawned per-message tasks so Run can join them
	// on shutdown.
	handlers sync.WaitGroup
}

// New creates an engine bound to a connected relay transport and the
// pairing established from the out-of-band URI.
func New(client relay.Transport, pairing *session.Pairing, cfg Config) *Engine {
	queueSize := cfg.InboundQueueSize
	if queueSize == 0 {
		queueSize = 64
	}

	return &Engine{
		cfg:      cfg,
		client:   client,
		pairing:  pairing,
		sessions: session.NewRegistry(),
		log:      logger.GetDefaultLogger().WithFields(logger.String("component", "wallet")),
		inbound:  make(chan relay.PublishedMessage, queueSize),
	}
}

// Sessions exposes the session registry.
func (e *Engine) Sessions() *session.Registry {
	return e.sessions
}

// Handler returns the connection handler to register with the relay
// client. Inbound messages flow into the engine's queue; a disconnect
// closes it.
func (e *Engine) Handler() relay.ConnectionHandler {
	return &connectionHandler{engine: e}
}

// Run pumps inbound messages until the pairing is terminated, the relay
// connection drops, or the context is cancelled. Every message is
// handled on its own goroutine; in-flight handlers are joined before
// returning on the termination path.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("event loop started", logger.String("pairing_topic", e.pairing.Topic))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-e.pairing.Done():
			e.handlers.Wait()
			e.log.Info("pairing terminated, event loop exiting")
			return nil

		case message, ok := <-e.inbound:
			if !ok {
				e.log.Warn("inbound channel closed, event loop exiting")
				return ErrRelayDisconnected
			}
			e.handlers.Add(1)
			go func() {
				defer e.handlers.Done()
				e.handleInbound(ctx, message)
			}()
		}
	}
}

// enqueue feeds a message into the pump unless the pairing has already
// been terminated.
func (e *Engine) enqueue(message relay.PublishedMessage) {
	select {
	case e.inbound <- message:
	case <-e.pairing.Done():
	}
}

// closeInbound makes the pump exit once the relay is gone.
func (e *Engine) closeInbound() {
	e.closeOnce.Do(func() { close(e.inbound) })
}

// symKeyFor resolves the symmetric key registered for a topic: the
// pairing key for the pairing topic, the session key otherwise. The
// lookup never overlaps I/O.
func (e *Engine) symKeyFor(topic string) ([32]byte, error) {
	if topic == e.pairing.Topic {
		return e.pairing.SymKey(), nil
	}

	symKey, ok := e.sessions.SymKey(topic)
	if !ok {
		return [32]byte{}, fmt.Errorf("missing sym key for topic=%s", topic)
	}
	return symKey, nil
}

// publishRequest encrypts and publishes a fresh request on a topic.
func (e *Engine) publishRequest(ctx context.Context, topic string, params rpc.RequestParams) error {
	request := rpc.NewRequest(params)
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to serialize %s request: %w", params.Method(), err)
	}

	e.log.WithTopic(topic).WithMethod(params.Method()).
		Debug("sending request", logger.Uint64("id", request.ID))

	return e.publishPayload(ctx, topic, params.RequestMetadata(), payload)
}

// publishSuccessResponse answers a request with a success body, echoing
// its ID.
func (e *Engine) publishSuccessResponse(ctx context.Context, topic string, request *rpc.Request, result any) error {
	response, err := rpc.NewSuccessResponse(request.ID, result)
	if err != nil {
		return err
	}
	return e.publishResponse(ctx, topic, request, response)
}

// publishErrorResponse answers a request with an error body, echoing
// its ID.
func (e *Engine) publishErrorResponse(ctx context.Context, topic string, request *rpc.Request, params rpc.ErrorParams) error {
	response, err := rpc.NewErrorResponse(request.ID, params)
	if err != nil {
		return err
	}
	return e.publishResponse(ctx, topic, request, response)
}

func (e *Engine) publishResponse(ctx context.Context, topic string, request *rpc.Request, response *rpc.Response) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to serialize response: %w", err)
	}

	e.log.WithTopic(topic).WithMethod(request.Params.Method()).
		Debug("sending response", logger.Uint64("id", response.ID))

	return e.publishPayload(ctx, topic, request.Params.ResponseMetadata(), payload)
}

// publishPayload seals a payload for a topic and hands it to the relay.
// The symmetric key is read under a short lock released before any I/O.
func (e *Engine) publishPayload(ctx context.Context, topic string, meta rpc.IrnMetadata, payload []byte) error {
	symKey, err := e.symKeyFor(topic)
	if err != nil {
		return err
	}

	encrypted, err := envelope.EncryptAndEncodeType0(payload, symKey[:])
	if err != nil {
		return fmt.Errorf("failed to seal payload for topic=%s: %w", topic, err)
	}

	err = e.client.Publish(ctx, topic, encrypted, meta.Tag,
		time.Duration(meta.TTL)*time.Second, meta.Prompt)
	if err != nil {
		metrics.RelayPublishes.WithLabelValues("failure").Inc()
		return err
	}

	metrics.RelayPublishes.WithLabelValues("success").Inc()
	return nil
}

// connectionHandler adapts relay callbacks onto the engine. Callbacks
// arrive serialized on the relay client's read loop.
type connectionHandler struct {
	engine *Engine
}

func (h *connectionHandler) Connected() {
	h.engine.log.Info("relay connection open")
}

func (h *connectionHandler) Disconnected(err error) {
	if err != nil {
		h.engine.log.Warn("relay connection closed", logger.Error(err))
	} else {
		h.engine.log.Info("relay connection closed")
	}
	h.engine.closeInbound()
}

func (h *connectionHandler) MessageReceived(message relay.PublishedMessage) {
	h.engine.log.WithTopic(message.Topic).
		Debug("inbound message", logger.Uint32("tag", message.Tag))
	h.engine.enqueue(message)
}

func (h *connectionHandler) InboundError(err error) {
	h.engine.log.Error("relay inbound error", logger.Error(err))
}

func (h *connectionHandler) OutboundError(err error) {
	h.engine.log.Error("relay outbound error", logger.Error(err))
}
