package source

import (
	"net/url"
	"strings"
)

// Resolver rewrites links of one hosting provider into URLs that serve the
// raw file.
type Resolver interface {
	Match(u *url.URL) bool
	Rewrite(u *url.URL) *url.URL
}

// Dropbox turns share-page links into direct downloads on
// dl.dropboxusercontent.com. Every query parameter except dl is kept as is.
type Dropbox struct{}

func (Dropbox) Match(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == "www.dropbox.com" || host == "dropbox.com" || host == "dl.dropboxusercontent.com"
}

func (Dropbox) Rewrite(u *url.URL) *url.URL {
	out := *u
	if h := strings.ToLower(u.Hostname()); h == "www.dropbox.com" || h == "dropbox.com" {
		out.Host = "dl.dropboxusercontent.com"
		if p := u.Port(); p != "" {
			out.Host += ":" + p
		}
	}
	q := out.Query()
	if q.Get("dl") != "1" {
		q.Set("dl", "1")
		out.RawQuery = q.Encode()
	}
	return &out
}

// rewrite applies the first matching resolver.
func rewrite(u *url.URL, resolvers []Resolver) *url.URL {
	for _, r := range resolvers {
		if r.Match(u) {
			return r.Rewrite(u)
		}
	}
	return u
}
