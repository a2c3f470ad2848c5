package hikvision

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"

	fastshot "github.com/opus-domini/fast-shot"
)

type ResponseStatus struct {
	XMLName       xml.Name `xml:"ResponseStatus"`
	Version       string   `xml:"version,attr"`
	RequestURL    string   `xml:"requestURL"`
	StatusCode    int      `xml:"statusCode"`
	StatusString  string   `xml:"statusString"`
	SubStatusCode string   `xml:"subStatusCode"`
	ErrorCode     int      `xml:"errorCode,omitempty"`
	ErrorMsg      string   `xml:"errorMsg,omitempty"`
}

func (s *ResponseStatus) describe() string {
	if s.SubStatusCode != "" {
		return s.StatusString + " (" + s.SubStatusCode + ")"
	}
	return s.StatusString
}

// handleError maps an ISAPI response onto the error taxonomy. The body is
// consumed and closed when the response is an error.
func handleError(resp *fastshot.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	body, _ := readBody(resp)

	var parsed ResponseStatus
	detail := ""
	if err := xml.Unmarshal(body, &parsed); err == nil {
		detail = parsed.describe()
	}

	switch {
	case code == 400:
		return custerror.FormatUpstream("camera rejected request: %s", detail)
	case code == 401 || code == 403:
		return custerror.FormatUpstream("camera rejected credentials")
	case code == 404:
		return custerror.FormatUpstream("camera does not expose this endpoint")
	case code == 503:
		return custerror.FormatUnavailable("camera is busy: %s", detail)
	}
	return custerror.FormatUpstream("camera responded with status %d %s", code, detail)
}

func readBody(resp *fastshot.Response) ([]byte, error) {
	body := resp.RawBody()
	if body == nil {
		return nil, custerror.FormatUpstream("empty response body")
	}
	defer body.Close()

	b, err := io.ReadAll(body)
	if err != nil {
		return nil, custerror.FormatUpstream("unable to read response body: %s", err)
	}
	return b, nil
}

func xmlResponse(resp *fastshot.Response, dest interface{}) error {
	b, err := readBody(resp)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(b, dest); err != nil {
		return custerror.FormatUpstream("malformed response: %s", err)
	}
	return nil
}

// wrapTransportError classifies a failed round trip. Deadline errors become
// timeouts, everything else means the camera could not be reached.
func wrapTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return custerror.FormatTimeout("camera did not answer in time")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return custerror.FormatTimeout("camera did not answer in time")
	}
	return custerror.FormatUnavailable("camera unreachable: %s", err)
}
