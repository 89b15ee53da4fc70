package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// newHTTPClient bounds both the dial and the whole exchange.
func newHTTPClient(connect, overall time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connect, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = connect
	return &http.Client{Timeout: overall, Transport: transport}
}

// postJSON sends body with bearer auth and returns the raw response body.
// Anything other than a 2xx response comes back as a *BackendError.
func postJSON(ctx context.Context, client *http.Client, vendor, url, apiKey string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: marshal request", vendor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request", vendor)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, errors.Wrapf(ctx.Err(), "%s: caller went away", vendor)
		}
		return nil, transportError(vendor, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(vendor, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &BackendError{Vendor: vendor, Status: resp.StatusCode, Detail: string(respBody)}
	}

	return respBody, nil
}

func transportError(vendor string, err error) error {
	status := http.StatusBadGateway
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	return &BackendError{Vendor: vendor, Status: status, Detail: err.Error()}
}
