// File: adapters/response_builder_test.go
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package adapters

import (
	"bufio"
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protomux/wspipe/api"
)

func TestAcceptKeyMatchesRFCExample(t *testing.T) {
	// Worked example from RFC 6455 section 1.3.
	require.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", AcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestBuildResponse(t *testing.T) {
	b := NewResponseBuilder()
	out, err := b.Build("dGhlIHNhbXBsZSBub25jZQ==")
	require.NoError(t, err)

	s := string(out)
	require.True(t, strings.HasPrefix(s, "HTTP/1.1 101 Switching Protocols\r\n"))
	require.True(t, strings.HasSuffix(s, "\r\n\r\n"))

	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(out)), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	require.Equal(t, "websocket", resp.Header.Get(api.HeaderUpgrade))
	require.Equal(t, "Upgrade", resp.Header.Get(api.HeaderConnection))
	require.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", resp.Header.Get(api.HeaderSecWebSocketAccept))
}

func TestBuildTrimsKeyWhitespace(t *testing.T) {
	b := NewResponseBuilder()
	plain, err := b.Build("dGhlIHNhbXBsZSBub25jZQ==")
	require.NoError(t, err)
	padded, err := b.Build("  dGhlIHNhbXBsZSBub25jZQ==  ")
	require.NoError(t, err)
	require.Equal(t, plain, padded)
}

func TestBuildRejectsEmptyKey(t *testing.T) {
	b := NewResponseBuilder()
	_, err := b.Build("   ")
	require.ErrorIs(t, err, api.ErrMalformedHandshake)
}
