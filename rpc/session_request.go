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
	irnSessionRequestRequest  = IrnMetadata{Tag: 1108, TTL: 300, Prompt: true}
	irnSessionRequestResponse = IrnMetadata{Tag: 1109, TTL: 300, Prompt: false}
)

// SessionRequestPayload is the inner chain request carried by a
// wc_sessionRequest.
type SessionRequestPayload struct {
	Method string `json:"method"`
	Params string `json:"params"`
}

// SessionRequestRequest forwards a chain JSON-RPC call to the wallet.
type SessionRequestRequest struct {
	Request SessionRequestPayload `json:"request"`
	ChainID string                `json:"chainId"`
}

func (*SessionRequestRequest) Method() string { return MethodSessionRequest }

func (*SessionRequestRequest) RequestMetadata() IrnMetadata { return irnSessionRequestRequest }

func (*SessionRequestRequest) ResponseMetadata() IrnMetadata { return irnSessionRequestResponse }
