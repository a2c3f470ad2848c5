package hikvision

import (
	"context"
	"fmt"

	fastshot "github.com/opus-domini/fast-shot"
)

type SmartApiInterface interface {
	FieldDetection(ctx context.Context, channelId string) ([]byte, error)
	UpdateFieldDetection(ctx context.Context, channelId string, body []byte) error
	LineDetection(ctx context.Context, channelId string) ([]byte, error)
	UpdateLineDetection(ctx context.Context, channelId string, body []byte) error
}

type smartApiClient struct {
	restClient fastshot.ClientHttpMethods
}

func (c *smartApiClient) getBaseUrl() string {
	return "/Smart"
}

func (c *smartApiClient) fieldUrl(channelId string) string {
	return fmt.Sprintf("%s/FieldDetection/%s", c.getBaseUrl(), channelId)
}

func (c *smartApiClient) lineUrl(channelId string) string {
	return fmt.Sprintf("%s/LineDetection/%s", c.getBaseUrl(), channelId)
}

func (c *smartApiClient) FieldDetection(ctx context.Context, channelId string) ([]byte, error) {
	return getRaw(ctx, c.restClient, c.fieldUrl(channelId))
}

func (c *smartApiClient) UpdateFieldDetection(ctx context.Context, channelId string, body []byte) error {
	return putRaw(ctx, c.restClient, c.fieldUrl(channelId), body)
}

func (c *smartApiClient) LineDetection(ctx context.Context, channelId string) ([]byte, error) {
	return getRaw(ctx, c.restClient, c.lineUrl(channelId))
}

func (c *smartApiClient) UpdateLineDetection(ctx context.Context, channelId string, body []byte) error {
	return putRaw(ctx, c.restClient, c.lineUrl(channelId), body)
}
