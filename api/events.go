// File: api/events.go
// Package api defines the outward event hooks.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

// Events receives decoded frames routed by opcode. Hooks for one session are
// invoked serially, in frame arrival order, from the pipeline's dispatch
// goroutine; a slow hook delays that session only.
//
// The close hook fires before the session teardown is requested, so it may
// still observe session state. Payload slices are owned by the callee.
type Events interface {
	OnText(sess Session, text string)
	OnBinary(sess Session, payload []byte)
	OnPing(sess Session, payload []byte)
	OnPong(sess Session, payload []byte)
	OnClose(sess Session, code StatusCode)
}
