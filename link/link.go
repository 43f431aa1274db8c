// Package link classifies decoded payloads as clickable URLs.
package link

import "net/url"

// Classify reports whether text is a clickable link. Only well-formed URLs
// with an http or https scheme and a host qualify; anything else renders as
// plain text.
func Classify(text string) (*url.URL, bool) {
	u, err := url.Parse(text)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}
