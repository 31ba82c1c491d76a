// Package client sends single line requests to a task scheduling server.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/viant/tasksched/service/protocol"
)

// Client represents a request/response client, one connection per request
type Client struct {
	address string
	timeout time.Duration
	dialer  net.Dialer
}

// Option represents client option
type Option func(c *Client)

// WithTimeout sets the per-request deadline used when ctx carries none
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// New creates a client for address
func New(address string, options ...Option) *Client {
	ret := &Client{address: address, timeout: 10 * time.Second}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Send calls action with body; a nil body is sent as an empty object
func (c *Client) Send(ctx context.Context, action string, body map[string]interface{}) (*protocol.Response, error) {
	if body == nil {
		body = map[string]interface{}{}
	}
	return c.Do(ctx, protocol.NewRequest(action, body))
}

// Do sends request and reads a single response line
func (c *Client) Do(ctx context.Context, request *protocol.Request) (*protocol.Response, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.Exchange(ctx, payload)
}

// Exchange writes line followed by a newline and returns the decoded reply
func (c *Client) Exchange(ctx context.Context, line []byte) (*protocol.Response, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %v: %w", c.address, err)
	}
	defer conn.Close()
	deadline, ok := ctx.Deadline()
	if !ok && c.timeout > 0 {
		deadline = time.Now().Add(c.timeout)
	}
	if !deadline.IsZero() {
		_ = conn.SetDeadline(deadline)
	}
	data := make([]byte, 0, len(line)+1)
	data = append(append(data, line...), '\n')
	if _, err = conn.Write(data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(reply) == 0 {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	response, err := protocol.DecodeResponse(reply)
	if err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return response, nil
}
