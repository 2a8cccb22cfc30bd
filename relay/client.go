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
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Relay RPC method names.
const (
	methodSubscribe    = "irn_subscribe"
	methodUnsubscribe  = "irn_unsubscribe"
	methodPublish      = "irn_publish"
	methodSubscription = "irn_subscription"
)

// ConnectionOptions configures Dial.
type ConnectionOptions struct {
	// Address is the relay WebSocket URL, e.g. wss://relay.walletconnect.com.
	Address string

	// ProjectID identifies the project to the relay.
	ProjectID string

	// Origin is sent as the HTTP Origin header when non-empty.
	Origin string

	// DialTimeout bounds the WebSocket handshake. Zero means 30s.
	DialTimeout time.Duration

	// RequestTimeout bounds each relay RPC awaiting its acknowledgement.
	// Zero means 30s.
	RequestTimeout time.Duration
}

func (o *ConnectionOptions) withDefaults() ConnectionOptions {
	opts := *o
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 30 * time.Second
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return opts
}

// Client is a WebSocket relay client implementing Transport. A single
// read loop delivers subscription traffic to the connection handler and
// routes RPC acknowledgements back to their callers; writes are
// serialized by a mutex.
type Client struct {
	handler ConnectionHandler
	opts    ConnectionOptions

	conn    *websocket.Conn
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[uint64]chan rpcOutcome

	nextID atomic.Uint64

	closeOnce sync.Once
	done      chan struct{}
}

type rpcOutcome struct {
	result json.RawMessage
	err    *wireError
}

type wireFrame struct {
	ID      uint64          `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *wireError      `json:"error,omitempty"`
}

type wireError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

func (e *wireError) Error() string {
	return fmt.Sprintf("relay error %d: %s", e.Code, e.Message)
}

type subscribeParams struct {
	Topic string `json:"topic"`
}

type unsubscribeParams struct {
	Topic string `json:"topic"`
	ID    string `json:"id"`
}

type publishParams struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
	TTL     uint64 `json:"ttl"`
	Tag     uint32 `json:"tag"`
	Prompt  bool   `json:"prompt"`
}

type subscriptionParams struct {
	ID   string `json:"id"`
	Data struct {
		Topic       string `json:"topic"`
		Message     string `json:"message"`
		PublishedAt int64  `json:"publishedAt"`
		Tag         uint32 `json:"tag"`
	} `json:"data"`
}

// Dial connects to the relay, authenticating with a freshly minted JWT,
// and starts the read loop. The handler's Connected callback fires before
// Dial returns.
func Dial(ctx context.Context, opts ConnectionOptions, handler ConnectionHandler) (*Client, error) {
	opts = opts.withDefaults()

	token, err := NewAuthToken(opts.Address)
	if err != nil {
		return nil, err
	}

	addr, err := url.Parse(opts.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid relay address: %w", err)
	}
	query := addr.Query()
	query.Set("auth", token)
	if opts.ProjectID != "" {
		query.Set("projectId", opts.ProjectID)
	}
	addr.RawQuery = query.Encode()

	dialer := &websocket.Dialer{HandshakeTimeout: opts.DialTimeout}
	var header map[string][]string
	if opts.Origin != "" {
		header = map[string][]string{"Origin": {opts.Origin}}
	}

	conn, resp, err := dialer.DialContext(ctx, addr.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay dial failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("relay dial failed: %w", err)
	}

	c := &Client{
		handler: handler,
		opts:    opts,
		conn:    conn,
		pending: make(map[uint64]chan rpcOutcome),
		done:    make(chan struct{}),
	}
	c.nextID.Store(uint64(time.Now().UnixMilli()) * 1000)

	handler.Connected()
	go c.readLoop()

	return c, nil
}

// Subscribe implements Transport.
func (c *Client) Subscribe(ctx context.Context, topic string) (SubscriptionID, error) {
	result, err := c.call(ctx, methodSubscribe, subscribeParams{Topic: topic})
	if err != nil {
		return "", fmt.Errorf("subscribe topic=%s: %w", topic, err)
	}

	var id string
	if err := json.Unmarshal(result, &id); err != nil {
		return "", fmt.Errorf("subscribe topic=%s: malformed subscription id: %w", topic, err)
	}
	return SubscriptionID(id), nil
}

// Unsubscribe implements Transport.
func (c *Client) Unsubscribe(ctx context.Context, topic string, id SubscriptionID) error {
	if _, err := c.call(ctx, methodUnsubscribe, unsubscribeParams{Topic: topic, ID: string(id)}); err != nil {
		return fmt.Errorf("unsubscribe topic=%s: %w", topic, err)
	}
	return nil
}

// Publish implements Transport.
func (c *Client) Publish(ctx context.Context, topic, message string, tag uint32, ttl time.Duration, prompt bool) error {
	params := publishParams{
		Topic:   topic,
		Message: message,
		TTL:     uint64(ttl / time.Second),
		Tag:     tag,
		Prompt:  prompt,
	}
	if _, err := c.call(ctx, methodPublish, params); err != nil {
		return fmt.Errorf("publish topic=%s tag=%d: %w", topic, tag, err)
	}
	return nil
}

// Close implements Transport. It attempts a clean WebSocket close and
// stops the read loop.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.conn.Close()
	})

	<-c.done
	return err
}

// call performs one relay RPC and waits for its acknowledgement.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal %s params: %w", method, err)
	}

	id := c.nextID.Add(1)
	outcome := make(chan rpcOutcome, 1)

	c.pendingMu.Lock()
	c.pending[id] = outcome
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	frame := wireFrame{ID: id, JSONRPC: "2.0", Method: method, Params: raw}
	if err := c.write(&frame); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, fmt.Errorf("relay connection closed")
	case <-time.After(c.opts.RequestTimeout):
		return nil, fmt.Errorf("%s acknowledgement timeout", method)
	case out := <-outcome:
		if out.err != nil {
			return nil, out.err
		}
		return out.result, nil
	}
}

func (c *Client) write(frame *wireFrame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("relay write failed: %w", err)
	}
	return nil
}

// readLoop runs until the connection drops. Subscription frames go to the
// handler, everything else resolves a pending call.
func (c *Client) readLoop() {
	defer close(c.done)

	for {
		var frame wireFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.handler.Disconnected(nil)
			} else {
				c.handler.Disconnected(err)
			}
			return
		}

		switch frame.Method {
		case methodSubscription:
			c.handleSubscription(&frame)
		case "":
			c.resolvePending(&frame)
		default:
			c.handler.InboundError(fmt.Errorf("unexpected relay method: %s", frame.Method))
		}
	}
}

func (c *Client) handleSubscription(frame *wireFrame) {
	var params subscriptionParams
	if err := json.Unmarshal(frame.Params, &params); err != nil {
		c.handler.InboundError(fmt.Errorf("malformed subscription params: %w", err))
		return
	}

	// Acknowledge before handing off; the relay redelivers unacked
	// messages.
	ack := wireFrame{ID: frame.ID, JSONRPC: "2.0", Result: json.RawMessage("true")}
	if err := c.write(&ack); err != nil {
		c.handler.OutboundError(err)
	}

	c.handler.MessageReceived(PublishedMessage{
		Topic:       params.Data.Topic,
		Message:     params.Data.Message,
		Tag:         params.Data.Tag,
		PublishedAt: params.Data.PublishedAt,
	})
}

func (c *Client) resolvePending(frame *wireFrame) {
	c.pendingMu.Lock()
	outcome, ok := c.pending[frame.ID]
	c.pendingMu.Unlock()

	if !ok {
		c.handler.InboundError(fmt.Errorf("acknowledgement for unknown request id=%d", frame.ID))
		return
	}

	outcome <- rpcOutcome{result: frame.Result, err: frame.Error}
}
