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
	irnSessionPingRequest  = IrnMetadata{Tag: 1114, TTL: 30, Prompt: false}
	irnSessionPingResponse = IrnMetadata{Tag: 1115, TTL: 30, Prompt: false}
)

// SessionPingRequest is an empty liveness probe.
type SessionPingRequest struct{}

func (*SessionPingRequest) Method() string { return MethodSessionPing }

func (*SessionPingRequest) RequestMetadata() IrnMetadata { return irnSessionPingRequest }

func (*SessionPingRequest) ResponseMetadata() IrnMetadata { return irnSessionPingResponse }
