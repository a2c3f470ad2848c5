package hikvision

import (
	"context"
	"encoding/xml"
	"fmt"

	fastshot "github.com/opus-domini/fast-shot"
)

type SystemApiInterface interface {
	DeviceInfo(ctx context.Context) (*SystemDeviceInfoResponse, error)
	MotionDetection(ctx context.Context, channelId string) ([]byte, error)
	UpdateMotionDetection(ctx context.Context, channelId string, body []byte) error
}

type systemApiClient struct {
	restClient fastshot.ClientHttpMethods
}

func (c *systemApiClient) getBaseUrl() string {
	return "/System"
}

type SystemDeviceInfoResponse struct {
	XMLName         xml.Name `xml:"DeviceInfo"`
	DeviceName      string   `xml:"deviceName"`
	DeviceID        string   `xml:"deviceID"`
	Model           string   `xml:"model"`
	SerialNumber    string   `xml:"serialNumber"`
	MacAddress      string   `xml:"macAddress"`
	FirmwareVersion string   `xml:"firmwareVersion"`
	DeviceType      string   `xml:"deviceType"`
}

func (c *systemApiClient) DeviceInfo(ctx context.Context) (*SystemDeviceInfoResponse, error) {
	p := fmt.Sprintf("%s/deviceInfo", c.getBaseUrl())

	resp, err := c.restClient.GET(p).
		Context().Set(ctx).
		Send()
	if err != nil {
		return nil, wrapTransportError(ctx, err)
	}

	if err := handleError(&resp); err != nil {
		return nil, err
	}

	var parsedResp SystemDeviceInfoResponse
	if err := xmlResponse(&resp, &parsedResp); err != nil {
		return nil, err
	}

	return &parsedResp, nil
}

func (c *systemApiClient) motionDetectionUrl(channelId string) string {
	return fmt.Sprintf("%s/Video/inputs/channels/%s/motionDetection", c.getBaseUrl(), channelId)
}

func (c *systemApiClient) MotionDetection(ctx context.Context, channelId string) ([]byte, error) {
	return getRaw(ctx, c.restClient, c.motionDetectionUrl(channelId))
}

func (c *systemApiClient) UpdateMotionDetection(ctx context.Context, channelId string, body []byte) error {
	return putRaw(ctx, c.restClient, c.motionDetectionUrl(channelId), body)
}

func getRaw(ctx context.Context, restClient fastshot.ClientHttpMethods, p string) ([]byte, error) {
	resp, err := restClient.GET(p).
		Context().Set(ctx).
		Send()
	if err != nil {
		return nil, wrapTransportError(ctx, err)
	}

	if err := handleError(&resp); err != nil {
		return nil, err
	}

	return readBody(&resp)
}

func putRaw(ctx context.Context, restClient fastshot.ClientHttpMethods, p string, body []byte) error {
	resp, err := restClient.PUT(p).
		Context().Set(ctx).
		Body().AsString(string(body)).
		Send()
	if err != nil {
		return wrapTransportError(ctx, err)
	}

	if err := handleError(&resp); err != nil {
		return err
	}

	if b := resp.RawBody(); b != nil {
		b.Close()
	}
	return nil
}
