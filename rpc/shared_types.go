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
	"slices"
)

// Metadata describes a session participant to the other side.
type Metadata struct {
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Icons       []string `json:"icons"`
	Name        string   `json:"name"`
}

// Relay names the relay protocol carrying a session.
type Relay struct {
	Protocol string  `json:"protocol"`
	Data     *string `json:"data,omitempty"`
}

// Namespace is the capability descriptor for one chain family: the chains,
// JSON-RPC methods, and events a side requires or offers.
type Namespace struct {
	Chains     []string    `json:"chains"`
	Methods    []string    `json:"methods"`
	Events     []string    `json:"events"`
	Extensions []Namespace `json:"extensions,omitempty"`
}

// Supported verifies that the required namespace is a subset of this one.
func (n *Namespace) Supported(required *Namespace) error {
	for _, chain := range required.Chains {
		if !slices.Contains(n.Chains, chain) {
			return fmt.Errorf("chain/chains not supported, actual: %v, expected: %v",
				n.Chains, required.Chains)
		}
	}

	for _, method := range required.Methods {
		if !slices.Contains(n.Methods, method) {
			return fmt.Errorf("method/methods not supported, actual: %v, expected: %v",
				n.Methods, required.Methods)
		}
	}

	for _, event := range required.Events {
		if !slices.Contains(n.Events, event) {
			return fmt.Errorf("event/events not supported, actual: %v, expected: %v",
				n.Events, required.Events)
		}
	}

	if required.Extensions != nil {
		if n.Extensions == nil {
			return fmt.Errorf("extension/extensions not supported, actual: none, expected: %v",
				required.Extensions)
		}
		for _, ext := range required.Extensions {
			if !slices.ContainsFunc(n.Extensions, func(e Namespace) bool {
				return namespaceEqual(e, ext)
			}) {
				return fmt.Errorf("extension/extensions not supported, actual: %v, expected: %v",
					n.Extensions, required.Extensions)
			}
		}
	}

	return nil
}

func namespaceEqual(a, b Namespace) bool {
	if !slices.Equal(a.Chains, b.Chains) ||
		!slices.Equal(a.Methods, b.Methods) ||
		!slices.Equal(a.Events, b.Events) {
		return false
	}
	return slices.EqualFunc(a.Extensions, b.Extensions, namespaceEqual)
}

// Namespaces groups the supported chain families.
type Namespaces struct {
	EIP155 *Namespace `json:"eip155,omitempty"`
	Cosmos *Namespace `json:"cosmos,omitempty"`
}

// Supported verifies that every family the proposer requires is present
// in this offer and a subset of it. An offer exposing no family at all is
// rejected outright.
func (n *Namespaces) Supported(required *Namespaces) error {
	if n.EIP155 == nil && n.Cosmos == nil {
		return fmt.Errorf("no namespaces found")
	}

	if required.EIP155 != nil {
		if n.EIP155 == nil {
			return fmt.Errorf("eip155 namespace is required but missing")
		}
		if err := n.EIP155.Supported(required.EIP155); err != nil {
			return err
		}
	}

	if required.Cosmos != nil {
		if n.Cosmos == nil {
			return fmt.Errorf("cosmos namespace is required but missing")
		}
		if err := n.Cosmos.Supported(required.Cosmos); err != nil {
			return err
		}
	}

	return nil
}
