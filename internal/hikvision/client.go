package hikvision

import (
	"context"
	"net/url"
	"strings"
	"time"

	custhttp "github.com/CE-Thesis-2023/hikcamerabot/internal/http"
	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"

	fastshot "github.com/opus-domini/fast-shot"
	"go.uber.org/zap"
)

type Client interface {
	System(credentials *Credentials) SystemApiInterface
	Streaming(credentials *Credentials) StreamingApiInterface
	Image(credentials *Credentials) ImageApiInterface
	Smart(credentials *Credentials) SmartApiInterface
	Event(credentials *Credentials) EventApiInterface
}

type client struct {
	options *hikvisionOptions
}

func NewClient(options ...HikvisionClientOptioner) (Client, error) {
	opts := hikvisionOptions{
		Timeout: 5 * time.Second,
	}
	for _, o := range options {
		o(&opts)
	}
	return &client{
		options: &opts,
	}, nil
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Ip       string `json:"ip"`
}

func (c *Credentials) baseUrl() string {
	host := c.Ip
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		logger.SError("hikvision: parse camera host error", zap.Error(err))
		return host + "/ISAPI"
	}
	return u.JoinPath("/ISAPI").String()
}

func (c *client) getRestClient(opts *Credentials) fastshot.ClientHttpMethods {
	builder := fastshot.NewClient(opts.baseUrl())
	if opts.Username != "" {
		builder.Auth().BasicAuth(opts.Username, opts.Password)
	}
	return builder.
		Config().SetFollowRedirects(true).
		Config().SetTimeout(c.options.Timeout).
		Header().AddContentType("application/xml").
		Build()
}

func (c *client) System(credentials *Credentials) SystemApiInterface {
	return &systemApiClient{
		restClient: c.getRestClient(credentials),
	}
}

func (c *client) Streaming(credentials *Credentials) StreamingApiInterface {
	return &streamingApiClient{
		restClient: c.getRestClient(credentials),
	}
}

func (c *client) Image(credentials *Credentials) ImageApiInterface {
	return &imageApiClient{
		restClient: c.getRestClient(credentials),
	}
}

func (c *client) Smart(credentials *Credentials) SmartApiInterface {
	return &smartApiClient{
		restClient: c.getRestClient(credentials),
	}
}

func (c *client) Event(credentials *Credentials) EventApiInterface {
	return &eventApiClient{
		credentials: credentials,
		httpClient:  custhttp.NewHttpClient(context.Background()),
	}
}
