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

package rpc

import (
	"fmt"
)

// IrnMetadata is the static relay routing metadata attached to every
// publish: the numeric tag, the time-to-live in seconds, and whether the
// relay should push-notify the peer.
type IrnMetadata struct {
	Tag    uint32
	TTL    uint64
	Prompt bool
}

// Sign API tags occupy 1100..=1115; per method the even tag is the
// request and the odd tag the response.
const (
	irnTagRangeStart uint32 = 1100
	irnTagRangeEnd   uint32 = 1115
)

// IrnTagInRange reports whether a tag belongs to the Sign API. Messages
// outside the range belong to other protocols multiplexed on the relay
// and are ignored rather than rejected.
func IrnTagInRange(tag uint32) bool {
	return tag >= irnTagRangeStart && tag <= irnTagRangeEnd
}

// Method name wire strings.
const (
	MethodSessionPropose = "wc_sessionPropose"
	MethodSessionSettle  = "wc_sessionSettle"
	MethodSessionUpdate  = "wc_sessionUpdate"
	MethodSessionExtend  = "wc_sessionExtend"
	MethodSessionRequest = "wc_sessionRequest"
	MethodSessionEvent   = "wc_sessionEvent"
	MethodSessionDelete  = "wc_sessionDelete"
	MethodSessionPing    = "wc_sessionPing"
)

// RequestParams is the closed set of method payloads. Each implementation
// knows its method name and the routing metadata of both directions, so a
// handler answering a request looks the response tag up on the request it
// is answering.
type RequestParams interface {
	// Method returns the wc_* wire string.
	Method() string

	// RequestMetadata returns the routing metadata for publishing this
	// payload as a request.
	RequestMetadata() IrnMetadata

	// ResponseMetadata returns the routing metadata for publishing a
	// response to this payload.
	ResponseMetadata() IrnMetadata
}

// newRequestParams maps a method name to an empty concrete payload.
func newRequestParams(method string) (RequestParams, error) {
	switch method {
	case MethodSessionPropose:
		return new(SessionProposeRequest), nil
	case MethodSessionSettle:
		return new(SessionSettleRequest), nil
	case MethodSessionUpdate:
		return new(SessionUpdateRequest), nil
	case MethodSessionExtend:
		return new(SessionExtendRequest), nil
	case MethodSessionRequest:
		return new(SessionRequestRequest), nil
	case MethodSessionEvent:
		return new(SessionEventRequest), nil
	case MethodSessionDelete:
		return new(SessionDeleteRequest), nil
	case MethodSessionPing:
		return new(SessionPingRequest), nil
	default:
		return nil, fmt.Errorf("unknown method: %q", method)
	}
}

// ErrorParams is the body of an error response. The documentation states
// both fields are required, but on session expiry an empty error is
// received, so both stay optional and round-trip verbatim.
type ErrorParams struct {
	Code    *int64  `json:"code,omitempty"`
	Message *string `json:"message,omitempty"`
}

func (e ErrorParams) String() string {
	code := int64(0)
	if e.Code != nil {
		code = *e.Code
	}
	message := ""
	if e.Message != nil {
		message = *e.Message
	}
	return fmt.Sprintf("code=%d message=%q", code, message)
}

// NewErrorParams builds an ErrorParams with both fields present.
func NewErrorParams(code int64, message string) ErrorParams {
	return ErrorParams{Code: &code, Message: &message}
}
