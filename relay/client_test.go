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

package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRelay is a minimal in-process relay speaking the irn_* wire
// protocol: it acknowledges subscribe/unsubscribe/publish and can push
// subscription messages to the connected client.
type fakeRelay struct {
	t *testing.T

	mu      sync.Mutex
	conn    *websocket.Conn
	authed  string
	project string

	published []publishParams
}

func (f *fakeRelay) handler() http.Handler {
	upgrader := websocket.Upgrader{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.authed = r.URL.Query().Get("auth")
		f.project = r.URL.Query().Get("projectId")
		f.mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(f.t, err)

		f.mu.Lock()
		f.conn = conn
		f.mu.Unlock()

		for {
			var frame wireFrame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}

			switch frame.Method {
			case methodSubscribe:
				f.reply(conn, frame.ID, `"test-subscription-id"`)
			case methodUnsubscribe:
				f.reply(conn, frame.ID, `true`)
			case methodPublish:
				var params publishParams
				require.NoError(f.t, json.Unmarshal(frame.Params, &params))
				f.mu.Lock()
				f.published = append(f.published, params)
				f.mu.Unlock()
				f.reply(conn, frame.ID, `true`)
			case "":
				// Acknowledgement of a pushed subscription frame.
			}
		}
	})
}

func (f *fakeRelay) reply(conn *websocket.Conn, id uint64, result string) {
	err := conn.WriteJSON(wireFrame{ID: id, JSONRPC: "2.0", Result: json.RawMessage(result)})
	require.NoError(f.t, err)
}

func (f *fakeRelay) push(topic, message string, tag uint32) {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()

	var params subscriptionParams
	params.ID = "test-subscription-id"
	params.Data.Topic = topic
	params.Data.Message = message
	params.Data.Tag = tag
	params.Data.PublishedAt = time.Now().UnixMilli()
	raw, err := json.Marshal(params)
	require.NoError(f.t, err)

	err = conn.WriteJSON(wireFrame{ID: 777, JSONRPC: "2.0", Method: methodSubscription, Params: raw})
	require.NoError(f.t, err)
}

type recordingHandler struct {
	mu           sync.Mutex
	connected    bool
	disconnected bool
	messages     []PublishedMessage
	inboundErrs  []error
	msgCh        chan PublishedMessage
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{msgCh: make(chan PublishedMessage, 8)}
}

func (h *recordingHandler) Connected() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected = true
}

func (h *recordingHandler) Disconnected(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disconnected = true
}

func (h *recordingHandler) MessageReceived(message PublishedMessage) {
	h.mu.Lock()
	h.messages = append(h.messages, message)
	h.mu.Unlock()
	h.msgCh <- message
}

func (h *recordingHandler) InboundError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inboundErrs = append(h.inboundErrs, err)
}

func (h *recordingHandler) OutboundError(err error) {}

func dialTestRelay(t *testing.T) (*fakeRelay, *Client, *recordingHandler) {
	t.Helper()

	relay := &fakeRelay{t: t}
	server := httptest.NewServer(relay.handler())
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	handler := newRecordingHandler()

	client, err := Dial(context.Background(), ConnectionOptions{
		Address:        wsURL,
		ProjectID:      "test-project",
		RequestTimeout: 2 * time.Second,
	}, handler)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return relay, client, handler
}

func TestClientSubscribePublishUnsubscribe(t *testing.T) {
	relay, client, handler := dialTestRelay(t)

	assert.True(t, handler.connected)

	relay.mu.Lock()
	assert.NotEmpty(t, relay.authed)
	assert.Equal(t, "test-project", relay.project)
	relay.mu.Unlock()

	ctx := context.Background()

	id, err := client.Subscribe(ctx, "aa11")
	require.NoError(t, err)
	assert.Equal(t, SubscriptionID("test-subscription-id"), id)

	err = client.Publish(ctx, "aa11", "ZW52ZWxvcGU=", 1102, 300*time.Second, false)
	require.NoError(t, err)

	relay.mu.Lock()
	require.Len(t, relay.published, 1)
	published := relay.published[0]
	relay.mu.Unlock()

	assert.Equal(t, "aa11", published.Topic)
	assert.Equal(t, "ZW52ZWxvcGU=", published.Message)
	assert.Equal(t, uint32(1102), published.Tag)
	assert.Equal(t, uint64(300), published.TTL)
	assert.False(t, published.Prompt)

	require.NoError(t, client.Unsubscribe(ctx, "aa11", id))
}

func TestClientInboundSubscription(t *testing.T) {
	relay, client, handler := dialTestRelay(t)

	_, err := client.Subscribe(context.Background(), "aa11")
	require.NoError(t, err)

	relay.push("aa11", "bWVzc2FnZQ==", 1108)

	select {
	case msg := <-handler.msgCh:
		assert.Equal(t, "aa11", msg.Topic)
		assert.Equal(t, "bWVzc2FnZQ==", msg.Message)
		assert.Equal(t, uint32(1108), msg.Tag)
		assert.NotZero(t, msg.PublishedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("inbound message not delivered")
	}
}

func TestClientContextCancellation(t *testing.T) {
	// A relay that never acknowledges.
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	handler := newRecordingHandler()
	client, err := Dial(context.Background(), ConnectionOptions{
		Address: "ws" + strings.TrimPrefix(server.URL, "http"),
	}, handler)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = client.Subscribe(ctx, "aa11")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
