package hikvision

import (
	"context"
	"encoding/xml"
	"fmt"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"

	fastshot "github.com/opus-domini/fast-shot"
)

type ImageApiInterface interface {
	IrcutFilter(ctx context.Context, channelId string) (*IrcutFilter, error)
	UpdateIrcutFilter(ctx context.Context, channelId string, req *IrcutFilter) error
}

type imageApiClient struct {
	restClient fastshot.ClientHttpMethods
}

func (c *imageApiClient) getBaseUrl() string {
	return "/Image/channels"
}

type IrcutFilter struct {
	XMLName               xml.Name `xml:"IrcutFilter"`
	IrcutFilterType       string   `xml:"IrcutFilterType"`
	NightToDayFilterLevel string   `xml:"nightToDayFilterLevel,omitempty"`
	NightToDayFilterTime  string   `xml:"nightToDayFilterTime,omitempty"`
}

func (c *imageApiClient) ircutUrl(channelId string) string {
	return fmt.Sprintf("%s/%s/IrcutFilter", c.getBaseUrl(), channelId)
}

func (c *imageApiClient) IrcutFilter(ctx context.Context, channelId string) (*IrcutFilter, error) {
	resp, err := c.restClient.GET(c.ircutUrl(channelId)).
		Context().Set(ctx).
		Send()
	if err != nil {
		return nil, wrapTransportError(ctx, err)
	}

	if err := handleError(&resp); err != nil {
		return nil, err
	}

	var parsedResp IrcutFilter
	if err := xmlResponse(&resp, &parsedResp); err != nil {
		return nil, err
	}
	return &parsedResp, nil
}

func (c *imageApiClient) UpdateIrcutFilter(ctx context.Context, channelId string, req *IrcutFilter) error {
	body, err := xml.Marshal(req)
	if err != nil {
		return custerror.FormatInvalidArgument("unable to encode IR-cut filter: %s", err)
	}
	return putRaw(ctx, c.restClient, c.ircutUrl(channelId), body)
}
