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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		params RequestParams
	}{
		{
			name: "propose",
			params: &SessionProposeRequest{
				Relays:   []Relay{{Protocol: "irn"}},
				Proposer: Proposer{PublicKey: "aa11", Metadata: Metadata{Name: "dapp", Icons: []string{}}},
				RequiredNamespaces: Namespaces{
					EIP155: &Namespace{
						Chains:  []string{"eip155:5"},
						Methods: []string{"personal_sign"},
						Events:  []string{"accountsChanged"},
					},
				},
			},
		},
		{
			name: "settle",
			params: &SessionSettleRequest{
				Relay:      Relay{Protocol: "irn"},
				Controller: Controller{PublicKey: "bb22", Metadata: Metadata{Name: "wallet", Icons: []string{}}},
				Namespaces: SettleNamespaces{
					EIP155: &SettleNamespace{
						Accounts: []string{"eip155:5:0xBA5BA3955463ADcc7aa3E33bbdfb8A68e0933dD8"},
						Methods:  []string{"personal_sign"},
						Events:   []string{"accountsChanged"},
					},
				},
				Expiry: 300000000000,
			},
		},
		{
			name:   "update",
			params: &SessionUpdateRequest{Namespaces: Namespaces{EIP155: &Namespace{Chains: []string{"eip155:1"}, Methods: []string{}, Events: []string{}}}},
		},
		{
			name:   "extend",
			params: &SessionExtendRequest{Expiry: 86400},
		},
		{
			name:   "request",
			params: &SessionRequestRequest{Request: SessionRequestPayload{Method: "personal_sign", Params: `["0xdead","0xbeef"]`}, ChainID: "eip155:5"},
		},
		{
			name:   "event",
			params: &SessionEventRequest{Event: Event{Name: "accountsChanged", Data: "[]"}, ChainID: "eip155:5"},
		},
		{
			name:   "delete",
			params: &SessionDeleteRequest{Code: 6000, Message: "user_disconnected"},
		},
		{
			name:   "ping",
			params: &SessionPingRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(tt.params)
			data, err := json.Marshal(req)
			require.NoError(t, err)

			var parsed Request
			require.NoError(t, json.Unmarshal(data, &parsed))
			assert.Equal(t, req.ID, parsed.ID)
			assert.Equal(t, JSONRPCVersion, parsed.JSONRPC)
			assert.Equal(t, tt.params, parsed.Params)
		})
	}
}

func TestRequestWireFormat(t *testing.T) {
	req := &Request{
		ID:      42,
		JSONRPC: JSONRPCVersion,
		Params:  &SessionDeleteRequest{Code: 6000, Message: "user_disconnected"},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":42,"jsonrpc":"2.0","method":"wc_sessionDelete","params":{"code":6000,"message":"user_disconnected"}}`,
		string(data))
}

func TestProposeWireKeysAreCamelCase(t *testing.T) {
	req := &Request{
		ID:      7,
		JSONRPC: JSONRPCVersion,
		Params: &SessionProposeRequest{
			Relays:             []Relay{{Protocol: "irn"}},
			Proposer:           Proposer{PublicKey: "aa"},
			RequiredNamespaces: Namespaces{},
		},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"requiredNamespaces"`)
	assert.Contains(t, string(data), `"publicKey"`)
	assert.NotContains(t, string(data), `"required_namespaces"`)
}

func TestRequestUnknownMethod(t *testing.T) {
	err := json.Unmarshal([]byte(`{"id":1,"jsonrpc":"2.0","method":"wc_bogus","params":{}}`), new(Request))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown method")
}

func TestPingAcceptsEmptyAndNullParams(t *testing.T) {
	for _, raw := range []string{
		`{"id":42,"jsonrpc":"2.0","method":"wc_sessionPing","params":{}}`,
		`{"id":42,"jsonrpc":"2.0","method":"wc_sessionPing","params":null}`,
	} {
		var req Request
		require.NoError(t, json.Unmarshal([]byte(raw), &req))
		assert.Equal(t, &SessionPingRequest{}, req.Params)
	}
}

func TestParsePayload(t *testing.T) {
	payload, err := ParsePayload([]byte(`{"id":42,"jsonrpc":"2.0","method":"wc_sessionPing","params":{}}`))
	require.NoError(t, err)
	req, ok := payload.(*Request)
	require.True(t, ok)
	assert.Equal(t, uint64(42), req.PayloadID())
	require.NoError(t, req.Validate())

	payload, err = ParsePayload([]byte(`{"id":42,"jsonrpc":"2.0","result":true}`))
	require.NoError(t, err)
	res, ok := payload.(*Response)
	require.True(t, ok)
	assert.Equal(t, uint64(42), res.PayloadID())
	assert.Equal(t, json.RawMessage(`true`), res.Result)

	payload, err = ParsePayload([]byte(`{"id":9,"jsonrpc":"2.0","error":{"code":5000,"message":"rejected"}}`))
	require.NoError(t, err)
	res, ok = payload.(*Response)
	require.True(t, ok)
	assert.NotNil(t, res.Error)

	_, err = ParsePayload([]byte(`{"id":1,"jsonrpc":"2.0"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither request nor response")

	_, err = ParsePayload([]byte(`not json`))
	assert.Error(t, err)
}

func TestValidateVersion(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"jsonrpc":"1.0","method":"wc_sessionPing","params":{}}`), &req))
	assert.ErrorIs(t, req.Validate(), ErrInvalidJSONRPCVersion)

	res := &Response{ID: 1, JSONRPC: "3.0", Result: json.RawMessage(`true`)}
	assert.ErrorIs(t, res.Validate(), ErrInvalidJSONRPCVersion)
}

func TestResponseConstructors(t *testing.T) {
	res, err := NewSuccessResponse(42, true)
	require.NoError(t, err)
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"jsonrpc":"2.0","result":true}`, string(data))

	res, err = NewSuccessResponse(43, SessionProposeResponse{
		Relay:              Relay{Protocol: "irn"},
		ResponderPublicKey: "cafe",
	})
	require.NoError(t, err)
	data, err = json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":43,"jsonrpc":"2.0","result":{"relay":{"protocol":"irn"},"responderPublicKey":"cafe"}}`,
		string(data))

	res, err = NewErrorResponse(44, NewErrorParams(5001, "unsupported method"))
	require.NoError(t, err)
	data, err = json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":44,"jsonrpc":"2.0","error":{"code":5001,"message":"unsupported method"}}`,
		string(data))
}

func TestErrorParamsOptionalFields(t *testing.T) {
	var empty ErrorParams
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Nil(t, empty.Code)
	assert.Nil(t, empty.Message)

	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	var full ErrorParams
	require.NoError(t, json.Unmarshal([]byte(`{"code":6000,"message":"user_disconnected"}`), &full))
	require.NotNil(t, full.Code)
	assert.Equal(t, int64(6000), *full.Code)
	assert.Equal(t, `code=6000 message="user_disconnected"`, full.String())
}

func TestRequestIDUniqueness(t *testing.T) {
	seen := make(map[uint64]struct{})
	for i := 0; i < 1000; i++ {
		req := NewRequest(&SessionPingRequest{})
		_, dup := seen[req.ID]
		assert.False(t, dup, "duplicate request id %d", req.ID)
		seen[req.ID] = struct{}{}
	}
}
