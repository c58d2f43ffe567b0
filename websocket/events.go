// File: websocket/events.go
// Package websocket implements the upgrade and frame-dispatch stage.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package websocket

import "github.com/protomux/wspipe/api"

// NopEvents is an api.Events with empty hooks. Embed it and override the
// hooks you care about.
type NopEvents struct{}

var _ api.Events = NopEvents{}

func (NopEvents) OnText(api.Session, string)          {}
func (NopEvents) OnBinary(api.Session, []byte)        {}
func (NopEvents) OnPing(api.Session, []byte)          {}
func (NopEvents) OnPong(api.Session, []byte)          {}
func (NopEvents) OnClose(api.Session, api.StatusCode) {}
