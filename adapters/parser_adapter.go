// File: adapters/parser_adapter.go
// Package adapters binds the api collaborator contracts to real libraries.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// RequestParser implements api.UpgradeParser over net/http request parsing.

package adapters

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/protomux/wspipe/api"
)

// DefaultMaxHandshakeBytes caps the size of an upgrade request head.
const DefaultMaxHandshakeBytes = 8 << 10

var headTerminator = []byte("\r\n\r\n")

// RequestParser recognizes HTTP request heads inside raw buffered bytes.
// It never consumes input; the caller discards by the reported length.
type RequestParser struct {
	// MaxHeadBytes rejects heads larger than this as malformed.
	MaxHeadBytes int
}

var _ api.UpgradeParser = (*RequestParser)(nil)

// NewRequestParser returns a parser with the default head cap.
func NewRequestParser() *RequestParser {
	return &RequestParser{MaxHeadBytes: DefaultMaxHandshakeBytes}
}

// Parse classifies buf. Empty or truncated-but-plausible input reports an
// incomplete HTTP head; bytes that cannot start an HTTP request line report
// IsHTTP false; a complete head is parsed with http.ReadRequest and returned
// with its exact byte length.
func (p *RequestParser) Parse(buf []byte) (api.HandshakeResult, error) {
	if len(buf) == 0 {
		return api.HandshakeResult{IsHTTP: true}, nil
	}
	if !plausibleRequestLine(buf) {
		return api.HandshakeResult{}, nil
	}

	end := bytes.Index(buf, headTerminator)
	if end < 0 {
		if p.MaxHeadBytes > 0 && len(buf) > p.MaxHeadBytes {
			return api.HandshakeResult{}, fmt.Errorf(
				"%w: head exceeds %d bytes without terminating", api.ErrMalformedHandshake, p.MaxHeadBytes)
		}
		return api.HandshakeResult{IsHTTP: true}, nil
	}
	head := end + len(headTerminator)
	if p.MaxHeadBytes > 0 && head > p.MaxHeadBytes {
		return api.HandshakeResult{}, fmt.Errorf(
			"%w: head of %d bytes exceeds cap of %d", api.ErrMalformedHandshake, head, p.MaxHeadBytes)
	}

	req, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(buf[:head])))
	if err != nil {
		return api.HandshakeResult{}, fmt.Errorf("%w: %v", api.ErrMalformedHandshake, err)
	}
	return api.HandshakeResult{
		IsHTTP:   true,
		Request:  &upgradeRequest{req: req},
		Consumed: head,
	}, nil
}

// plausibleRequestLine reports whether buf could begin an HTTP request line.
// WebSocket frames, TLS records, and other binary protocols fail the
// printable-ASCII test on their first bytes; textual non-HTTP protocols fail
// the method/version shape test once a full line is present.
func plausibleRequestLine(buf []byte) bool {
	line := buf
	complete := false
	if i := bytes.Index(buf, []byte("\r\n")); i >= 0 {
		line = buf[:i]
		complete = true
	}
	for _, b := range line {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	if !complete {
		return true
	}
	fields := bytes.Fields(line)
	if len(fields) != 3 {
		return false
	}
	if !bytes.HasPrefix(fields[2], []byte("HTTP/")) {
		return false
	}
	for _, b := range fields[0] {
		if (b < 'A' || b > 'Z') && b != '-' && b != '_' {
			return false
		}
	}
	return true
}

// upgradeRequest adapts *http.Request to api.UpgradeRequest.
type upgradeRequest struct {
	req *http.Request
}

var _ api.UpgradeRequest = (*upgradeRequest)(nil)

// Header returns the first value of the named header.
func (u *upgradeRequest) Header(name string) (string, bool) {
	vs := u.req.Header.Values(name)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// IsWebSocketUpgrade checks the full RFC 6455 marker set.
func (u *upgradeRequest) IsWebSocketUpgrade() bool {
	r := u.req
	if r.Method != http.MethodGet {
		return false
	}
	if !headerHasToken(r.Header, api.HeaderConnection, "upgrade") {
		return false
	}
	if !headerHasToken(r.Header, api.HeaderUpgrade, "websocket") {
		return false
	}
	if r.Header.Get(api.HeaderSecWebSocketKey) == "" {
		return false
	}
	return r.Header.Get(api.HeaderSecWebSocketVersion) == api.WebSocketVersion
}

// headerHasToken reports whether any comma-separated value of the named
// header equals token, case-insensitively.
func headerHasToken(h http.Header, name, token string) bool {
	for _, v := range h.Values(name) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}
