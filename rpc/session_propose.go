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
	irnSessionProposeRequest  = IrnMetadata{Tag: 1100, TTL: 300, Prompt: true}
	irnSessionProposeResponse = IrnMetadata{Tag: 1101, TTL: 300, Prompt: false}
)

// Proposer identifies the dApp side of a proposal: its ephemeral X25519
// public key (hex) and display metadata.
type Proposer struct {
	PublicKey string   `json:"publicKey"`
	Metadata  Metadata `json:"metadata"`
}

// SessionProposeRequest asks the wallet to establish a session with the
// given capabilities.
type SessionProposeRequest struct {
	Relays             []Relay    `json:"relays"`
	Proposer           Proposer   `json:"proposer"`
	RequiredNamespaces Namespaces `json:"requiredNamespaces"`
}

func (*SessionProposeRequest) Method() string { return MethodSessionPropose }

func (*SessionProposeRequest) RequestMetadata() IrnMetadata { return irnSessionProposeRequest }

func (*SessionProposeRequest) ResponseMetadata() IrnMetadata { return irnSessionProposeResponse }

// SessionProposeResponse is the only non-boolean success body: the relay
// to settle on and the wallet's ECDH public key (hex).
type SessionProposeResponse struct {
	Relay              Relay  `json:"relay"`
	ResponderPublicKey string `json:"responderPublicKey"`
}
