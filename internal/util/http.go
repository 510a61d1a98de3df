package util

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
)

// ErrInternalAddress is returned when a guarded client dials a loopback,
// private, link-local or unspecified address.
var ErrInternalAddress = errors.New("internal address")

// NewClient returns an http.Client with the given overall timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NewGuardedClient is NewClient whose connections may only reach public
// addresses.
func NewGuardedClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout, Transport: NewGuardedTransport()}
}

// NewGuardedTransport refuses internal addresses at dial time, after DNS
// resolution. Proxies are disabled: the proxy address would be checked
// instead of the target.
func NewGuardedTransport() *http.Transport {
	d := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   DenyInternal,
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = nil
	t.DialContext = d.DialContext
	return t
}

// DenyInternal is a net.Dialer Control hook. address is the resolved
// ip:port about to be connected.
func DenyInternal(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("%w: unparsable %q", ErrInternalAddress, host)
	}
	if IsInternal(ip) {
		return fmt.Errorf("%w: %s", ErrInternalAddress, ip)
	}
	return nil
}

func IsInternal(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

// PostJSON posts payload as JSON to url and returns the response body. Any
// non-2xx status is an error.
func PostJSON(ctx context.Context, client *http.Client, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, fmt.Errorf("POST %s: status %d", url, resp.StatusCode)
	}
	return out, nil
}
