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
	irnSessionExtendRequest  = IrnMetadata{Tag: 1106, TTL: 86400, Prompt: false}
	irnSessionExtendResponse = IrnMetadata{Tag: 1107, TTL: 86400, Prompt: false}
)

// SessionExtendRequest pushes the session expiry further out.
type SessionExtendRequest struct {
	Expiry uint64 `json:"expiry"`
}

func (*SessionExtendRequest) Method() string { return MethodSessionExtend }

func (*SessionExtendRequest) RequestMetadata() IrnMetadata { return irnSessionExtendRequest }

func (*SessionExtendRequest) ResponseMetadata() IrnMetadata { return irnSessionExtendResponse }
