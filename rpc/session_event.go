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

var (
	irnSessionEventRequest  = IrnMetadata{Tag: 1110, TTL: 300, Prompt: true}
	irnSessionEventResponse = IrnMetadata{Tag: 1111, TTL: 300, Prompt: false}
)

// Event is a named chain event with its payload.
type Event struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// SessionEventRequest notifies the other side of a chain event.
type SessionEventRequest struct {
	Event   Event  `json:"event"`
	ChainID string `json:"chainId"`
}

func (*SessionEventRequest) Method() string { return MethodSessionEvent }

func (*SessionEventRequest) RequestMetadata() IrnMetadata { return irnSessionEventRequest }

func (*SessionEventRequest) ResponseMetadata() IrnMetadata { return irnSessionEventResponse }
