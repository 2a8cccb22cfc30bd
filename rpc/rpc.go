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

// Package rpc defines the Sign API JSON-RPC surface: the eight
// wc_session* methods, their request and response payloads, and the
// per-method relay routing metadata.
//
// Requests are externally tagged by the "method" field; responses are
// distinguished structurally by the presence of "result" or "error".
package rpc

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// JSONRPCVersion is the only protocol version accepted on the wire.
const JSONRPCVersion = "2.0"

// ErrInvalidJSONRPCVersion is returned by Validate when a payload does not
// carry jsonrpc "2.0".
var ErrInvalidJSONRPCVersion = errors.New("invalid JSON RPC version")

// Payload is either a *Request or a *Response.
type Payload interface {
	// PayloadID returns the message ID contained within the payload.
	PayloadID() uint64

	// Validate checks the payload against protocol rules.
	Validate() error
}

// ParsePayload decodes a JSON payload into a *Request or a *Response.
// The two shapes are told apart structurally: a "method" key means
// request, a "result" or "error" key means response.
func ParsePayload(data []byte) (Payload, error) {
	var probe struct {
		Method *string         `json:"method"`
		Result json.RawMessage `json:"result"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}

	switch {
	case probe.Method != nil:
		req := new(Request)
		if err := json.Unmarshal(data, req); err != nil {
			return nil, err
		}
		return req, nil
	case probe.Result != nil || probe.Error != nil:
		res := new(Response)
		if err := json.Unmarshal(data, res); err != nil {
			return nil, err
		}
		return res, nil
	default:
		return nil, errors.New("payload matches neither request nor response shape")
	}
}

// Request is a Sign API JSON-RPC request.
type Request struct {
	// ID this message corresponds to.
	ID uint64

	// JSONRPC is the protocol version, always "2.0".
	JSONRPC string

	// Params carries the method-specific payload.
	Params RequestParams
}

// NewRequest creates a request with a fresh ID. IDs are derived from the
// wall clock in microseconds with a three-digit suffix taken from a
// randomly seeded counter, so up to 1000 requests created within the same
// microsecond do not collide.
func NewRequest(params RequestParams) *Request {
	return &Request{
		ID:      newRequestID(),
		JSONRPC: JSONRPCVersion,
		Params:  params,
	}
}

// PayloadID implements Payload.
func (r *Request) PayloadID() uint64 { return r.ID }

// Validate implements Payload.
func (r *Request) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return ErrInvalidJSONRPCVersion
	}
	return nil
}

type requestWire struct {
	ID      uint64          `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// MarshalJSON implements json.Marshaler, tagging the payload with the
// method name.
func (r *Request) MarshalJSON() ([]byte, error) {
	if r.Params == nil {
		return nil, errors.New("request has no params")
	}

	params, err := json.Marshal(r.Params)
	if err != nil {
		return nil, err
	}

	return json.Marshal(requestWire{
		ID:      r.ID,
		JSONRPC: r.JSONRPC,
		Method:  r.Params.Method(),
		Params:  params,
	})
}

// UnmarshalJSON implements json.Unmarshaler, dispatching on the method
// name to the concrete params type.
func (r *Request) UnmarshalJSON(data []byte) error {
	var wire requestWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	params, err := newRequestParams(wire.Method)
	if err != nil {
		return err
	}
	if len(wire.Params) > 0 && string(wire.Params) != "null" {
		if err := json.Unmarshal(wire.Params, params); err != nil {
			return fmt.Errorf("failed to parse %s params: %w", wire.Method, err)
		}
	}

	r.ID = wire.ID
	r.JSONRPC = wire.JSONRPC
	r.Params = params
	return nil
}

// Response is a Sign API JSON-RPC response. Exactly one of Result and
// Error is set.
type Response struct {
	// ID matches the ID of the request this response answers.
	ID uint64 `json:"id"`

	// JSONRPC is the protocol version, always "2.0".
	JSONRPC string `json:"jsonrpc"`

	// Result holds the raw success value.
	Result json.RawMessage `json:"result,omitempty"`

	// Error holds the raw error value.
	Error json.RawMessage `json:"error,omitempty"`
}

// NewSuccessResponse builds a success response for the given request ID.
func NewSuccessResponse(id uint64, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response result: %w", err)
	}
	return &Response{ID: id, JSONRPC: JSONRPCVersion, Result: raw}, nil
}

// NewErrorResponse builds an error response for the given request ID.
func NewErrorResponse(id uint64, params ErrorParams) (*Response, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response error: %w", err)
	}
	return &Response{ID: id, JSONRPC: JSONRPCVersion, Error: raw}, nil
}

// PayloadID implements Payload.
func (r *Response) PayloadID() uint64 { return r.ID }

// Validate implements Payload.
func (r *Response) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return ErrInvalidJSONRPCVersion
	}
	return nil
}

// idSuffix starts at a random offset so concurrent wallets do not mint
// colliding IDs; the increment keeps IDs unique within this process even
// when several are created in the same microsecond.
var idSuffix = func() *atomic.Uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	c := new(atomic.Uint64)
	c.Store(binary.BigEndian.Uint64(b[:]))
	return c
}()

func newRequestID() uint64 {
	return uint64(time.Now().UnixMicro())*1000 + idSuffix.Add(1)%1000
}
