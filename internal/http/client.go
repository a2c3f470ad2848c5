package custhttp

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"

	"go.uber.org/zap"
)

type Options struct {
	timeout time.Duration
}

type ClientOptioner func(o *Options)

// WithTimeout bounds whole requests. Leave it unset for long-lived streams.
func WithTimeout(dur time.Duration) ClientOptioner {
	return func(o *Options) {
		o.timeout = dur
	}
}

func NewHttpClient(ctx context.Context, opts ...ClientOptioner) *http.Client {
	options := &Options{}
	for _, o := range opts {
		o(options)
	}

	client := &http.Client{
		Timeout: options.timeout,
	}
	return client
}

type HttpRequestOptions struct {
	headers  map[string]string
	username string
	password string
}

func (o *HttpRequestOptions) hasBasicAuth() bool {
	return o.username != ""
}

type HttpRequestOptioner func(o *HttpRequestOptions)

func WithHeader(key string, value string) HttpRequestOptioner {
	return func(o *HttpRequestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

func WithBasicAuth(username, password string) HttpRequestOptioner {
	return func(o *HttpRequestOptions) {
		o.username = username
		o.password = password
	}
}

func NewHttpRequest(ctx context.Context, url *url.URL, method string, options ...HttpRequestOptioner) (*http.Request, error) {
	reqOptions := &HttpRequestOptions{}
	for _, o := range options {
		o(reqOptions)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		method,
		url.String(),
		nil)
	if err != nil {
		logger.SDebug("unable to create new http request",
			zap.Error(err))
		return nil, err
	}

	if reqOptions.hasBasicAuth() {
		req.SetBasicAuth(reqOptions.username, reqOptions.password)
	}
	for key, value := range reqOptions.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}
