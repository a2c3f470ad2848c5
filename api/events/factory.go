package eventsapi

import (
	"context"
	"sync"
)

var once sync.Once

var standardEventsHandler *StandardEventHandler

func Init(ctx context.Context, commands CommandRunner, sinks SinkProvider, options ...HandlerOptioner) {
	once.Do(func() {
		standardEventsHandler = NewStandardEventHandler(commands, sinks, options...)
	})
}

func GetStandardEventsHandler() *StandardEventHandler {
	return standardEventsHandler
}
