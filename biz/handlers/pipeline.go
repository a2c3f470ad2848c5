package handlers

import (
	"context"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/dispatcher"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/registry"
	"github.com/CE-Thesis-2023/hikcamerabot/biz/resolver"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"
)

// Request carries one command through the pipeline. Each stage fills in
// the fields later stages depend on.
type Request struct {
	Command chat.Command
	Sink    chat.ReplySink

	Spec     *CommandSpec
	Selector resolver.Selector
	Camera   *registry.CameraHandle
	Payload  events.Payload
	Event    *dispatcher.Event
}

// Stage either enriches the request and returns nil, or answers it with a
// reply that ends the pipeline.
type Stage func(ctx context.Context, req *Request) *chat.Reply

type Presenter func(ctx context.Context, req *Request) *chat.Reply

type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run passes the request through every stage in order. A short-circuit reply
// is sent through the request's sink and later stages are skipped.
func (p *Pipeline) Run(ctx context.Context, req *Request) error {
	for _, stage := range p.stages {
		if reply := stage(ctx, req); reply != nil {
			return req.Sink.Send(ctx, reply)
		}
	}
	return nil
}
