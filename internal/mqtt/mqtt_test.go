package custmqtt

import (
	"context"
	"errors"
	"testing"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/configs"
	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
	"github.com/CE-Thesis-2023/hikcamerabot/models/events"

	"github.com/bytedance/sonic"
	"github.com/eclipse/paho.golang/paho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published []*paho.Publish
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, p *paho.Publish) (*paho.PublishResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.published = append(f.published, p)
	return &paho.PublishResponse{}, nil
}

func TestBrokerUrl(t *testing.T) {
	u := brokerUrl(&configs.EventStoreConfigs{Host: "broker.local", Port: 8883, TlsEnabled: true})
	assert.Equal(t, "tls://broker.local:8883", u.String())

	u = brokerUrl(&configs.EventStoreConfigs{Host: "broker.local"})
	assert.Equal(t, "mqtt://broker.local", u.String())
}

func TestClientId(t *testing.T) {
	assert.Equal(t, "bot-1", clientId(&configs.EventStoreConfigs{ClientId: "bot-1"}))
	assert.Contains(t, clientId(&configs.EventStoreConfigs{}), "hikcamerabot-")
}

func TestReplySink(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewReplyPublisher(pub, "bot1").SinkFor("cmd-1", "chat-9")

	require.NoError(t, sink.Send(context.Background(), &chat.Reply{
		Text:      "Front door, taken at now",
		Format:    chat.FormatPlain,
		Media:     []byte("jpeg"),
		MediaType: chat.MediaPhoto,
	}))

	require.Len(t, pub.published, 1)
	msg := pub.published[0]
	assert.Equal(t, "replies/bot1/chat-9", msg.Topic)
	assert.EqualValues(t, 1, msg.QoS)

	var decoded events.ReplyMessage
	require.NoError(t, sonic.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, "cmd-1", decoded.CommandId)
	assert.Equal(t, []byte("jpeg"), decoded.Media)
	assert.Equal(t, "photo", decoded.MediaType)
}

func TestPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("not connected")}
	err := NewReplyPublisher(pub, "bot1").PublishAlert(context.Background(), &events.AlertMessage{CameraId: "front"})
	assert.Equal(t, custerror.CodeUnavailable, custerror.CodeOf(err))
}

func TestGlobalPublisher_WithoutClient(t *testing.T) {
	p := NewReplyPublisher(GlobalPublisher(), "bot")
	err := p.PublishAlert(context.Background(), &events.AlertMessage{ChatId: "1", Text: "motion"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, custerror.ErrorUnavailable))
}
