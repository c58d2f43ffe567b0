// File: adapters/codec_adapter.go
// Package adapters binds the api collaborator contracts to real libraries.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// WireCodec implements api.FrameCodec on top of github.com/gobwas/ws.

package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gobwas/ws"

	"github.com/protomux/wspipe/api"
)

// DefaultMaxFramePayload bounds a single frame's payload size.
const DefaultMaxFramePayload int64 = 1 << 20

// WireCodec parses and serializes RFC 6455 frames against byte buffers.
// It is stateless and safe to share across sessions.
type WireCodec struct {
	// MaxPayload rejects frames whose declared payload exceeds it.
	MaxPayload int64
}

var _ api.FrameCodec = (*WireCodec)(nil)

// NewWireCodec returns a codec with the default payload cap.
func NewWireCodec() *WireCodec {
	return &WireCodec{MaxPayload: DefaultMaxFramePayload}
}

// Decode parses one client frame from the head of buf. Header validation
// follows ws.CheckHeader for the server side: masking required, zero RSV
// bits, control frames final and at most 125 bytes. A lone continuation
// header passes through; fragment sequencing is not tracked here, and the
// frame machine ignores those frames.
func (c *WireCodec) Decode(buf []byte) (api.Frame, int, error) {
	rd := bytes.NewReader(buf)
	hdr, err := ws.ReadHeader(rd)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return api.Frame{}, 0, api.ErrIncompleteData
		}
		return api.Frame{}, 0, fmt.Errorf("%w: %v", api.ErrInvalidFraming, err)
	}
	if err := ws.CheckHeader(hdr, ws.StateServerSide); err != nil {
		if !errors.Is(err, ws.ErrProtocolContinuationUnexpected) {
			return api.Frame{}, 0, fmt.Errorf("%w: %v", api.ErrInvalidFraming, err)
		}
	}
	if c.MaxPayload > 0 && hdr.Length > c.MaxPayload {
		return api.Frame{}, 0, fmt.Errorf("%w: payload of %d bytes exceeds cap of %d",
			api.ErrInvalidFraming, hdr.Length, c.MaxPayload)
	}

	headerLen := len(buf) - rd.Len()
	total := headerLen + int(hdr.Length)
	if len(buf) < total {
		return api.Frame{}, 0, api.ErrIncompleteData
	}

	// Copy out: the input buffer is compacted after each consume, so the
	// frame must not alias it.
	payload := make([]byte, hdr.Length)
	copy(payload, buf[headerLen:total])
	if hdr.Masked {
		ws.Cipher(payload, hdr.Mask, 0)
	}

	return api.Frame{
		Opcode:  api.Opcode(hdr.OpCode),
		Payload: payload,
		Final:   hdr.Fin,
	}, total, nil
}

// Encode serializes an unmasked server frame.
func (c *WireCodec) Encode(f api.Frame) ([]byte, error) {
	if c.MaxPayload > 0 && int64(len(f.Payload)) > c.MaxPayload {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds cap of %d",
			api.ErrInvalidFraming, len(f.Payload), c.MaxPayload)
	}
	if f.Opcode.IsControl() && len(f.Payload) > int(ws.MaxControlFramePayloadSize) {
		return nil, fmt.Errorf("%w: control payload of %d bytes exceeds %d",
			api.ErrInvalidFraming, len(f.Payload), ws.MaxControlFramePayloadSize)
	}
	frame := ws.NewFrame(ws.OpCode(f.Opcode), f.Final, f.Payload)
	return ws.CompileFrame(frame)
}
