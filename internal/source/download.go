package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/youruser/mockupapp/internal/apperr"
	"github.com/youruser/mockupapp/internal/util"
)

const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxRedirects = 5
	DefaultMaxBytes     = 50 << 20
	DefaultUserAgent    = "Mozilla/5.0 (compatible; mockupapp/1.0)"
)

type Options struct {
	Timeout      time.Duration
	MaxRedirects int
	MaxBytes     int64
	UserAgent    string
	// BlockPrivate refuses connections to loopback, private or link-local
	// addresses. The check runs on the dialed address of every hop.
	BlockPrivate bool
}

func (o *Options) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
}

// HTTPSource downloads images over http(s). Redirects are followed by hand so
// every hop passes through the resolvers and the network guard again.
type HTTPSource struct {
	opts      Options
	client    *http.Client
	resolvers []Resolver
	log       zerolog.Logger
}

func NewHTTPSource(opts Options, log zerolog.Logger, resolvers ...Resolver) *HTTPSource {
	opts.defaults()
	client := util.NewClient(opts.Timeout)
	if opts.BlockPrivate {
		client = util.NewGuardedClient(opts.Timeout)
	}
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &HTTPSource{
		opts:      opts,
		client:    client,
		resolvers: resolvers,
		log:       log,
	}
}

// Fetch downloads rawURL and returns the body once it is known to be an
// image.
func (s *HTTPSource) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperr.New(apperr.KindValidation, "not an http(s) URL")
	}
	u = rewrite(u, s.resolvers)

	for hop := 0; ; hop++ {
		resp, err := s.get(ctx, u)
		if errors.Is(err, util.ErrInternalAddress) {
			return nil, apperr.Wrap(apperr.KindValidation, err, "refusing to fetch "+u.Hostname())
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindFetch, err, "request failed")
		}

		if isRedirect(resp.StatusCode) {
			loc := resp.Header.Get("Location")
			resp.Body.Close()
			if loc == "" {
				return nil, apperr.New(apperr.KindFetch, "redirect %d without Location", resp.StatusCode)
			}
			if hop >= s.opts.MaxRedirects {
				return nil, apperr.New(apperr.KindFetch, "too many redirects (limit %d)", s.opts.MaxRedirects)
			}
			next, err := u.Parse(loc)
			if err != nil {
				return nil, apperr.Wrap(apperr.KindFetch, err, "bad redirect location")
			}
			s.log.Debug().Str("from", u.String()).Str("to", next.String()).Int("hop", hop+1).Msg("following redirect")
			u = rewrite(next, s.resolvers)
			continue
		}

		return s.readBody(resp)
	}
}

func (s *HTTPSource) get(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")
	return s.client.Do(req)
}

func (s *HTTPSource) readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return nil, apperr.New(apperr.KindNotAnImage, "server returned HTML instead of an image")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.New(apperr.KindFetch, "unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.opts.MaxBytes+1))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, err, "read body")
	}
	if int64(len(body)) > s.opts.MaxBytes {
		return nil, apperr.New(apperr.KindFetch, "image larger than %d bytes", s.opts.MaxBytes)
	}
	if err := Sniff(body); err != nil {
		return nil, err
	}
	return body, nil
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}
