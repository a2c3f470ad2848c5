package hikvision

import (
	"context"
	"fmt"

	fastshot "github.com/opus-domini/fast-shot"
)

type StreamingApiInterface interface {
	Picture(ctx context.Context, channelId string) ([]byte, error)
}

type streamingApiClient struct {
	restClient fastshot.ClientHttpMethods
}

func (c *streamingApiClient) getBaseUrl() string {
	return "/Streaming/channels"
}

// Picture fetches a single JPEG frame from the given channel.
func (c *streamingApiClient) Picture(ctx context.Context, channelId string) ([]byte, error) {
	p := fmt.Sprintf("%s/%s/picture", c.getBaseUrl(), channelId)
	b, err := getRaw(ctx, c.restClient, p)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errEmptyPicture
	}
	return b, nil
}
