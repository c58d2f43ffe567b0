// File: websocket/conn.go
// Package websocket implements the upgrade and frame-dispatch stage.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package websocket

import (
	"encoding/binary"

	"github.com/protomux/wspipe/api"
)

// Conn is the frame-level write channel installed on a session by a
// successful handshake. Writes serialize through the stage codec and enqueue
// on the session, so they are as fire-and-forget as Session.Send itself.
type Conn struct {
	sess  api.Session
	codec api.FrameCodec
}

var _ api.WebSocketConn = (*Conn)(nil)

// NewConn binds a write channel to sess using codec for serialization.
func NewConn(sess api.Session, codec api.FrameCodec) *Conn {
	return &Conn{sess: sess, codec: codec}
}

// WriteFrame sends one final, unmasked frame.
func (c *Conn) WriteFrame(op api.Opcode, payload []byte) error {
	b, err := c.codec.Encode(api.Frame{Opcode: op, Payload: payload, Final: true})
	if err != nil {
		return err
	}
	return c.sess.Send(b)
}

// WriteText sends a text frame.
func (c *Conn) WriteText(text string) error {
	return c.WriteFrame(api.OpcodeText, []byte(text))
}

// WriteBinary sends a binary frame.
func (c *Conn) WriteBinary(p []byte) error {
	return c.WriteFrame(api.OpcodeBinary, p)
}

// WriteClose sends a close frame: big-endian status code, then the reason.
func (c *Conn) WriteClose(code api.StatusCode, reason string) error {
	payload := make([]byte, 2, 2+len(reason))
	binary.BigEndian.PutUint16(payload, uint16(code))
	payload = append(payload, reason...)
	return c.WriteFrame(api.OpcodeClose, payload)
}
