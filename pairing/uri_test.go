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

package pairing

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTopic  = "c0a2fb13a1f1f86a2e29b4dbf9dcb79a6a03f2a4ff1ad2e5e1b7cc46c9f2ed34"
	testSymKey = "7ff3e362f825ab868e20e767fe580d0311181632707e7c878cbeca0238d45b8b"
)

func testURI() string {
	return fmt.Sprintf("wc:%s@2?relay-protocol=irn&symKey=%s", testTopic, testSymKey)
}

func TestParse(t *testing.T) {
	p, err := Parse(testURI())
	require.NoError(t, err)

	assert.Equal(t, testTopic, p.Topic)
	assert.Equal(t, "2", p.Version)
	assert.Equal(t, "irn", p.Params.RelayProtocol)

	expected, err := hex.DecodeString(testSymKey)
	require.NoError(t, err)
	assert.Equal(t, expected, p.Params.SymKey[:])
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr string
	}{
		{
			name:    "wrong scheme",
			uri:     strings.Replace(testURI(), "wc:", "http:", 1),
			wantErr: `must start with "wc:"`,
		},
		{
			name:    "missing query",
			uri:     "wc:" + testTopic + "@2",
			wantErr: "no query parameters",
		},
		{
			name:    "missing version",
			uri:     "wc:" + testTopic + "?relay-protocol=irn&symKey=" + testSymKey,
			wantErr: "no version",
		},
		{
			name:    "unsupported version",
			uri:     strings.Replace(testURI(), "@2?", "@1?", 1),
			wantErr: "unsupported pairing version",
		},
		{
			name:    "short topic",
			uri:     fmt.Sprintf("wc:abcd@2?relay-protocol=irn&symKey=%s", testSymKey),
			wantErr: "topic must be 64 hex chars",
		},
		{
			name:    "non-hex topic",
			uri:     fmt.Sprintf("wc:%s@2?relay-protocol=irn&symKey=%s", strings.Repeat("zz", 32), testSymKey),
			wantErr: "not hex",
		},
		{
			name:    "missing relay protocol",
			uri:     fmt.Sprintf("wc:%s@2?symKey=%s", testTopic, testSymKey),
			wantErr: "missing relay-protocol",
		},
		{
			name:    "unsupported relay protocol",
			uri:     strings.Replace(testURI(), "relay-protocol=irn", "relay-protocol=waku", 1),
			wantErr: "unsupported relay protocol",
		},
		{
			name:    "missing sym key",
			uri:     fmt.Sprintf("wc:%s@2?relay-protocol=irn", testTopic),
			wantErr: "missing symKey",
		},
		{
			name:    "short sym key",
			uri:     fmt.Sprintf("wc:%s@2?relay-protocol=irn&symKey=abcd", testTopic),
			wantErr: "symKey must be 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.uri)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPairingRedaction(t *testing.T) {
	p, err := Parse(testURI())
	require.NoError(t, err)

	rendered := fmt.Sprintf("%v", p)
	assert.NotContains(t, rendered, testSymKey)
	assert.Contains(t, rendered, "********")
}
