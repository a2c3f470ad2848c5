package hikvision

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	custhttp "github.com/CE-Thesis-2023/hikcamerabot/internal/http"
)

type EventApiInterface interface {
	AlertStream(ctx context.Context, onAlert func(alert *EventNotificationAlert)) error
}

type eventApiClient struct {
	credentials *Credentials
	httpClient  *http.Client
}

type EventNotificationAlert struct {
	XMLName          xml.Name `xml:"EventNotificationAlert"`
	IpAddress        string   `xml:"ipAddress"`
	PortNo           int      `xml:"portNo"`
	ChannelId        int      `xml:"channelID"`
	DateTime         string   `xml:"dateTime"`
	ActiveCount      int      `xml:"activePostCount"`
	EventType        string   `xml:"eventType"`
	EventState       string   `xml:"eventState"`
	EventDescription string   `xml:"eventDescription"`
}

func (a *EventNotificationAlert) Active() bool {
	return strings.EqualFold(a.EventState, "active")
}

func (c *eventApiClient) getBaseUrl() string {
	return c.credentials.baseUrl() + "/Event"
}

// AlertStream holds the multipart alert stream open and calls onAlert for
// every notification until the context ends or the connection drops.
func (c *eventApiClient) AlertStream(ctx context.Context, onAlert func(alert *EventNotificationAlert)) error {
	p, err := url.Parse(c.getBaseUrl() + "/notification/alertStream")
	if err != nil {
		return custerror.FormatInvalidArgument("invalid camera address: %s", err)
	}

	request, err := custhttp.NewHttpRequest(
		ctx,
		p,
		http.MethodGet,
		custhttp.WithBasicAuth(c.credentials.Username, c.credentials.Password))
	if err != nil {
		return custerror.FormatInvalidArgument("unable to build alert stream request: %s", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return wrapTransportError(ctx, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
		return custerror.FormatUpstream("camera rejected credentials")
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return custerror.FormatUpstream("alert stream responded with status %d", response.StatusCode)
	}

	return decodeAlerts(ctx, response.Body, onAlert)
}

func decodeAlerts(ctx context.Context, r io.Reader, onAlert func(alert *EventNotificationAlert)) error {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false

	for {
		token, err := decoder.Token()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return custerror.FormatUnavailable("alert stream closed by camera")
			}
			return custerror.FormatUpstream("alert stream broken: %s", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "EventNotificationAlert" {
			continue
		}

		var alert EventNotificationAlert
		if err := decoder.DecodeElement(&alert, &start); err != nil {
			return custerror.FormatUpstream("malformed alert: %s", err)
		}
		onAlert(&alert)
	}
}
