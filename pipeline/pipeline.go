// File: pipeline/pipeline.go
// Package pipeline implements the ordered inbound-event dispatch chain.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// A Pipeline offers each inbound event to its stages in registration order
// and stops at the first stage that reports the event handled.

package pipeline

import "github.com/protomux/wspipe/api"

// HandlerFunc converts a function into an api.InboundHandler.
type HandlerFunc func(api.Session) bool

// OnInbound calls the underlying function.
func (f HandlerFunc) OnInbound(sess api.Session) bool {
	return f(sess)
}

// Pipeline is an ordered chain of inbound stages.
type Pipeline struct {
	stages []api.InboundHandler
}

// New builds a pipeline over the given stages, tried in argument order.
func New(stages ...api.InboundHandler) *Pipeline {
	return &Pipeline{stages: stages}
}

// Append adds stages to the end of the chain.
func (p *Pipeline) Append(stages ...api.InboundHandler) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

// Dispatch offers the event to each stage in order. It returns true as soon
// as a stage handles the event, false when no stage claims it.
func (p *Pipeline) Dispatch(sess api.Session) bool {
	for _, stage := range p.stages {
		if stage.OnInbound(sess) {
			return true
		}
	}
	return false
}

// OnInbound lets a Pipeline nest as a stage of another pipeline.
func (p *Pipeline) OnInbound(sess api.Session) bool {
	return p.Dispatch(sess)
}
