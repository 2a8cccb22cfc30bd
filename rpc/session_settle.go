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
	irnSessionSettleRequest  = IrnMetadata{Tag: 1102, TTL: 300, Prompt: false}
	irnSessionSettleResponse = IrnMetadata{Tag: 1103, TTL: 300, Prompt: false}
)

// Controller identifies the endpoint authoritative for the session after
// settlement (the wallet).
type Controller struct {
	PublicKey string   `json:"publicKey"`
	Metadata  Metadata `json:"metadata"`
}

// SettleNamespace mirrors Namespace with concrete accounts
// (chain:network:address) in place of chains.
type SettleNamespace struct {
	Accounts   []string          `json:"accounts"`
	Methods    []string          `json:"methods"`
	Events     []string          `json:"events"`
	Extensions []SettleNamespace `json:"extensions,omitempty"`
}

// SettleNamespaces groups the settled chain families.
type SettleNamespaces struct {
	EIP155 *SettleNamespace `json:"eip155,omitempty"`
	Cosmos *SettleNamespace `json:"cosmos,omitempty"`
}

// SessionSettleRequest finalizes a session on its derived topic.
type SessionSettleRequest struct {
	Relay      Relay            `json:"relay"`
	Controller Controller       `json:"controller"`
	Namespaces SettleNamespaces `json:"namespaces"`

	// Expiry is in microseconds, contrary to what the documentation
	// says (seconds).
	Expiry uint64 `json:"expiry"`
}

func (*SessionSettleRequest) Method() string { return MethodSessionSettle }

func (*SessionSettleRequest) RequestMetadata() IrnMetadata { return irnSessionSettleRequest }

func (*SessionSettleRequest) ResponseMetadata() IrnMetadata { return irnSessionSettleResponse }
