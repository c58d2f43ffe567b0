// File: websocket/frames.go
// Package websocket implements the upgrade and frame-dispatch stage.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package websocket

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/protomux/wspipe/api"
)

// handleFrame routes one decoded frame by opcode.
func (st *Stage) handleFrame(sess api.Session, conn api.WebSocketConn, frame api.Frame) {
	switch frame.Opcode {
	case api.OpcodeClose:
		// Payloads shorter than two bytes carry no status code.
		code := api.StatusNormalClosure
		if len(frame.Payload) > 1 {
			code = api.StatusCode(binary.BigEndian.Uint16(frame.Payload[:2]))
		}
		st.events.OnClose(sess, code)
		sess.Close()

	case api.OpcodeText:
		text := string(frame.Payload)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "�")
		}
		st.events.OnText(sess, text)

	case api.OpcodeBinary:
		st.events.OnBinary(sess, frame.Payload)

	case api.OpcodePing:
		// Echo before the hook. The reply is best-effort: this is the one
		// call site where a send result is discarded.
		_ = conn.WriteFrame(api.OpcodePong, frame.Payload)
		st.events.OnPing(sess, frame.Payload)

	case api.OpcodePong:
		st.events.OnPong(sess, frame.Payload)

	default:
		// Continuation and reserved opcodes carry no meaning at this layer.
	}
}
