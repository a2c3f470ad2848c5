package service

import (
	"context"
	"fmt"

	"github.com/CE-Thesis-2023/hikcamerabot/biz/dispatcher"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"
)

type DetectionService struct{}

func NewDetectionService() *DetectionService {
	return &DetectionService{}
}

func (s *DetectionService) Handle(ctx context.Context, evt *dispatcher.Event) (*chat.Reply, error) {
	payload, ok := evt.Payload.(events.ConfigureDetection)
	if !ok {
		return nil, unexpectedPayload(evt)
	}
	if err := evt.Camera.Control.SetDetection(ctx, payload.Detector, payload.Enable); err != nil {
		return nil, err
	}
	return chat.TextReply(fmt.Sprintf("%s detection successfully %s", payload.Detector.Title(), enabledWord(payload.Enable))), nil
}

type IrcutService struct{}

func NewIrcutService() *IrcutService {
	return &IrcutService{}
}

func (s *IrcutService) Handle(ctx context.Context, evt *dispatcher.Event) (*chat.Reply, error) {
	payload, ok := evt.Payload.(events.ConfigureIrcutFilter)
	if !ok {
		return nil, unexpectedPayload(evt)
	}
	if err := evt.Camera.Control.SetIrcutMode(ctx, payload.Mode); err != nil {
		return nil, err
	}
	return chat.TextReply(fmt.Sprintf("IR-cut filter set to %s", payload.Mode)), nil
}

type StreamService struct{}

func NewStreamService() *StreamService {
	return &StreamService{}
}

func (s *StreamService) Handle(ctx context.Context, evt *dispatcher.Event) (*chat.Reply, error) {
	payload, ok := evt.Payload.(events.ConfigureStream)
	if !ok {
		return nil, unexpectedPayload(evt)
	}
	if err := evt.Camera.Control.SetStream(ctx, payload.Service, payload.Enable); err != nil {
		return nil, err
	}
	verb := "stopped"
	if payload.Enable {
		verb = "started"
	}
	return chat.TextReply(fmt.Sprintf("%s stream successfully %s", payload.Service.Title(), verb)), nil
}

type AlarmService struct{}

func NewAlarmService() *AlarmService {
	return &AlarmService{}
}

func (s *AlarmService) Handle(ctx context.Context, evt *dispatcher.Event) (*chat.Reply, error) {
	payload, ok := evt.Payload.(events.ConfigureAlarm)
	if !ok {
		return nil, unexpectedPayload(evt)
	}
	if err := evt.Camera.Control.SetAlarm(ctx, payload.Enable); err != nil {
		return nil, err
	}
	return chat.TextReply(fmt.Sprintf("Alert mode %s", enabledWord(payload.Enable))), nil
}

func enabledWord(enable bool) string {
	if enable {
		return "enabled"
	}
	return "disabled"
}
