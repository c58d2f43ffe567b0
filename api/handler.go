// File: api/handler.go
// Package api defines the pipeline stage contract.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

// InboundHandler is one stage in the inbound pipeline.
type InboundHandler interface {
	// OnInbound processes one data-available delivery for sess and reports
	// whether this stage consumed the event. A false return passes the
	// event to the next stage in the chain.
	OnInbound(sess Session) bool
}
