// File: adapters/response_builder.go
// Package adapters binds the api collaborator contracts to real libraries.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// ResponseBuilder implements api.AcceptBuilder: the literal 101 Switching
// Protocols response answering a client key per RFC 6455 section 4.2.2.

package adapters

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/protomux/wspipe/api"
)

// websocketGUID is the fixed RFC 6455 key suffix.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// ResponseBuilder builds 101 responses.
type ResponseBuilder struct{}

var _ api.AcceptBuilder = (*ResponseBuilder)(nil)

// NewResponseBuilder returns a builder.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// Build returns the complete response bytes for the client's key.
func (b *ResponseBuilder) Build(secWebSocketKey string) ([]byte, error) {
	key := strings.TrimSpace(secWebSocketKey)
	if key == "" {
		return nil, fmt.Errorf("%w: empty Sec-WebSocket-Key", api.ErrMalformedHandshake)
	}
	var buf bytes.Buffer
	buf.WriteString("HTTP/1.1 101 Switching Protocols\r\n")
	buf.WriteString("Upgrade: websocket\r\n")
	buf.WriteString("Connection: Upgrade\r\n")
	buf.WriteString(api.HeaderSecWebSocketAccept + ": " + AcceptKey(key) + "\r\n")
	buf.WriteString("\r\n")
	return buf.Bytes(), nil
}

// AcceptKey computes base64(SHA-1(key + GUID)).
func AcceptKey(key string) string {
	h := sha1.New()
	io.WriteString(h, key)
	io.WriteString(h, websocketGUID)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
