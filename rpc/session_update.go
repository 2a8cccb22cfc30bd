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
	irnSessionUpdateRequest  = IrnMetadata{Tag: 1104, TTL: 86400, Prompt: false}
	irnSessionUpdateResponse = IrnMetadata{Tag: 1105, TTL: 86400, Prompt: false}
)

// SessionUpdateRequest replaces the session's namespaces.
type SessionUpdateRequest struct {
	Namespaces Namespaces `json:"namespaces"`
}

func (*SessionUpdateRequest) Method() string { return MethodSessionUpdate }

func (*SessionUpdateRequest) RequestMetadata() IrnMetadata { return irnSessionUpdateRequest }

func (*SessionUpdateRequest) ResponseMetadata() IrnMetadata { return irnSessionUpdateResponse }
