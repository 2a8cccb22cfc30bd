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

package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wcwallet-project/wcwallet/crypto/envelope"
	"github.com/wcwallet-project/wcwallet/crypto/keys"
	"github.com/wcwallet-project/wcwallet/internal/logger"
	"github.com/wcwallet-project/wcwallet/internal/metrics"
	"github.com/wcwallet-project/wcwallet/relay"
	"github.com/wcwallet-project/wcwallet/rpc"
	"github.com/wcwallet-project/wcwallet/session"
)

// Error codes returned to the dApp.
const (
	errCodeUnsupportedNamespaces int64 = 5100
	errCodeUnsupportedMethod     int64 = 10001
)

// handleInbound processes one relay message end to end. Failures are
// contained here: they are logged and counted, and never poison the
// pump.
func (e *Engine) handleInbound(ctx context.Context, message relay.PublishedMessage) {
	start := time.Now()
	defer func() {
		metrics.HandlerDuration.Observe(time.Since(start).Seconds())
	}()

	log := e.log.WithTopic(message.Topic)

	// Tags outside the Sign API range belong to other protocols
	// multiplexed on the relay.
	if !rpc.IrnTagInRange(message.Tag) {
		log.Debug("skipping message, tag outside Sign API range",
			logger.Uint32("tag", message.Tag))
		metrics.MessagesSkipped.Inc()
		return
	}

	method, err := e.processInbound(ctx, message)
	if err != nil {
		log.Error("failed to handle inbound message",
			logger.Uint32("tag", message.Tag),
			logger.Error(err))
		metrics.MessagesProcessed.WithLabelValues(method, "failure").Inc()
		return
	}

	metrics.MessagesProcessed.WithLabelValues(method, "success").Inc()
}

// processInbound decrypts, parses, and dispatches. It returns the method
// label for metrics ("response" for responses, "unknown" before the
// payload is readable).
func (e *Engine) processInbound(ctx context.Context, message relay.PublishedMessage) (string, error) {
	symKey, err := e.symKeyFor(message.Topic)
	if err != nil {
		return "unknown", err
	}

	plain, err := envelope.DecodeAndDecryptType0(message.Message, symKey[:])
	if err != nil {
		return "unknown", err
	}

	payload, err := rpc.ParsePayload([]byte(plain))
	if err != nil {
		return "unknown", err
	}
	if err := payload.Validate(); err != nil {
		return "unknown", err
	}

	switch p := payload.(type) {
	case *rpc.Request:
		return p.Params.Method(), e.processRequest(ctx, message.Topic, p)
	case *rpc.Response:
		return "response", e.processResponse(p)
	default:
		return "unknown", fmt.Errorf("unhandled payload type %T", payload)
	}
}

// processRequest routes a request to its handler and publishes the
// response. SessionDelete defers its registry cleanup until after the
// acknowledgement is on the wire.
func (e *Engine) processRequest(ctx context.Context, topic string, request *rpc.Request) error {
	var (
		result          any
		errParams       *rpc.ErrorParams
		cleanupRequired bool
	)

	switch params := request.Params.(type) {
	case *rpc.SessionProposeRequest:
		response, rejection, err := e.processProposal(ctx, params)
		if err != nil {
			return err
		}
		if rejection != nil {
			errParams = rejection
		} else {
			result = response
		}

	case *rpc.SessionDeleteRequest:
		e.log.WithTopic(topic).Info("session is being terminated",
			logger.Int("code", int(params.Code)),
			logger.String("reason", params.Message))
		result = true
		cleanupRequired = true

	case *rpc.SessionPingRequest:
		result = true

	default:
		// Reserved for future extension; answered with a structured
		// error rather than dropped.
		e.log.WithTopic(topic).WithMethod(request.Params.Method()).
			Warn("request method not handled")
		rejection := rpc.NewErrorParams(errCodeUnsupportedMethod,
			fmt.Sprintf("method %s is not supported", request.Params.Method()))
		errParams = &rejection
	}

	if errParams != nil {
		if err := e.publishErrorResponse(ctx, topic, request, *errParams); err != nil {
			return err
		}
		return nil
	}

	if err := e.publishSuccessResponse(ctx, topic, request, result); err != nil {
		return err
	}

	// Corner case after the session was closed by the dApp.
	if cleanupRequired {
		return e.sessionDeleteCleanup(ctx, topic)
	}

	return nil
}

// processProposal negotiates a proposal. A capability mismatch yields a
// rejection to publish on the pairing topic; a settlement failure
// (key agreement, subscribe, settle publish) is surfaced as an error.
func (e *Engine) processProposal(ctx context.Context, proposal *rpc.SessionProposeRequest) (*rpc.SessionProposeResponse, *rpc.ErrorParams, error) {
	offered := e.supportedNamespaces()
	if err := offered.Supported(&proposal.RequiredNamespaces); err != nil {
		e.log.Warn("proposal rejected", logger.Error(err))
		metrics.SessionsSettled.WithLabelValues("rejected").Inc()
		rejection := rpc.NewErrorParams(errCodeUnsupportedNamespaces, err.Error())
		return nil, &rejection, nil
	}

	sessionKey, err := keys.NewSessionKeyFromHex(proposal.Proposer.PublicKey)
	if err != nil {
		metrics.SessionsSettled.WithLabelValues("failure").Inc()
		return nil, nil, fmt.Errorf("key agreement failed: %w", err)
	}

	sessionTopic := sessionKey.Topic()
	subscriptionID, err := e.client.Subscribe(ctx, sessionTopic)
	if err != nil {
		metrics.SessionsSettled.WithLabelValues("failure").Inc()
		return nil, nil, err
	}

	sess := &session.Session{
		Topic:          sessionTopic,
		SubscriptionID: subscriptionID,
		Key:            sessionKey,
	}
	if err := e.sessions.Insert(sess); err != nil {
		_ = e.client.Unsubscribe(ctx, sessionTopic, subscriptionID)
		metrics.SessionsSettled.WithLabelValues("failure").Inc()
		return nil, nil, err
	}
	metrics.SessionsActive.Set(float64(e.sessions.Len()))

	e.log.WithTopic(sessionTopic).Info("session subscribed",
		logger.String("responder_public_key", sessionKey.PublicKeyHex()))

	settle := e.settleRequest(sessionKey.PublicKeyHex())
	if err := e.publishRequest(ctx, sessionTopic, settle); err != nil {
		metrics.SessionsSettled.WithLabelValues("failure").Inc()
		return nil, nil, err
	}
	metrics.SessionsSettled.WithLabelValues("success").Inc()

	return &rpc.SessionProposeResponse{
		Relay:              rpc.Relay{Protocol: Protocol},
		ResponderPublicKey: sessionKey.PublicKeyHex(),
	}, nil, nil
}

// sessionDeleteCleanup removes a deleted session, releases its
// subscription, and tears the pairing down once the registry is empty.
func (e *Engine) sessionDeleteCleanup(ctx context.Context, topic string) error {
	sess, ok := e.sessions.Remove(topic)
	if !ok {
		return fmt.Errorf("attempt to remove non-existing session topic=%s", topic)
	}
	metrics.SessionsActive.Set(float64(e.sessions.Len()))

	if err := e.client.Unsubscribe(ctx, sess.Topic, sess.SubscriptionID); err != nil {
		return err
	}

	if e.sessions.IsEmpty() {
		e.log.Info("no active sessions left, terminating the pairing")

		if err := e.client.Unsubscribe(ctx, e.pairing.Topic, e.pairing.SubscriptionID); err != nil {
			return err
		}
		e.pairing.Terminate()
	}

	return nil
}

// processResponse resolves an inbound response: boolean success bodies
// must be true, error bodies surface verbatim.
func (e *Engine) processResponse(response *rpc.Response) error {
	if response.Error != nil {
		var params rpc.ErrorParams
		if err := json.Unmarshal(response.Error, &params); err != nil {
			return fmt.Errorf("malformed error response id=%d: %w", response.ID, err)
		}
		return fmt.Errorf("peer sent an error response id=%d: %s", response.ID, params)
	}

	var ok bool
	if err := json.Unmarshal(response.Result, &ok); err == nil {
		if !ok {
			return fmt.Errorf("unsuccessful response id=%d", response.ID)
		}
		e.log.Debug("response acknowledged", logger.Uint64("id", response.ID))
		return nil
	}

	var propose rpc.SessionProposeResponse
	decoder := json.NewDecoder(bytes.NewReader(response.Result))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&propose); err == nil {
		e.log.Debug("proposal acknowledged", logger.Uint64("id", response.ID))
		return nil
	}

	return fmt.Errorf("unexpected response body id=%d", response.ID)
}

// supportedNamespaces is the wallet's offer during negotiation.
func (e *Engine) supportedNamespaces() *rpc.Namespaces {
	return &rpc.Namespaces{
		EIP155: &rpc.Namespace{
			Chains:  e.cfg.Chains,
			Methods: e.cfg.Methods,
			Events:  e.cfg.Events,
		},
	}
}

// settleRequest builds the wc_sessionSettle published on a fresh session
// topic.
func (e *Engine) settleRequest(responderPublicKey string) *rpc.SessionSettleRequest {
	return &rpc.SessionSettleRequest{
		Relay: rpc.Relay{Protocol: Protocol},
		Controller: rpc.Controller{
			PublicKey: responderPublicKey,
			Metadata:  e.cfg.Metadata,
		},
		Namespaces: rpc.SettleNamespaces{
			EIP155: &rpc.SettleNamespace{
				Accounts: []string{e.cfg.Account},
				Methods:  e.cfg.Methods,
				Events:   e.cfg.Events,
			},
		},
		Expiry: sessionExpiry,
	}
}
