package backend

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

var htmlPrefixes = [][]byte{
	[]byte("<!doctype html"),
	[]byte("<html"),
}

// looksLikeHTML sniffs the start of a body.
func looksLikeHTML(body []byte) bool {
	head := bytes.TrimLeft(body, " \t\r\n\ufeff")
	if len(head) > 64 {
		head = head[:64]
	}
	head = bytes.ToLower(head)
	for _, p := range htmlPrefixes {
		if bytes.HasPrefix(head, p) {
			return true
		}
	}
	return false
}

func isHTMLContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.Contains(strings.ToLower(ct), "text/html")
	}
	return mt == "text/html"
}

// navigationTarget decides whether a response must be followed by the
// browser. It returns the location relative to the console origin.
func (c *Client) navigationTarget(req *http.Request, status int, header http.Header, body []byte) (string, bool) {
	if status >= 300 && status < 400 {
		loc := header.Get("Location")
		if loc == "" {
			return "", false
		}
		target := localize(req.URL, loc)
		if c.isNavigationPath(target) {
			return target, true
		}
		return "", false
	}
	// Error pages from proxies stay errors.
	if status >= 400 {
		return "", false
	}
	if isHTMLContentType(header.Get("Content-Type")) || looksLikeHTML(body) {
		return localize(req.URL, req.URL.RequestURI()), true
	}
	return "", false
}

func (c *Client) isNavigationPath(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	for _, p := range c.navPaths {
		if u.Path == p || strings.HasPrefix(u.Path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// localize strips scheme and host so the browser stays on the console origin.
func localize(base *url.URL, location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	out := u.EscapedPath()
	if out == "" {
		out = "/"
	}
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
