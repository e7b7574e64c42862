package lnaddress

import (
	"strings"

	"github.com/fiatjaf/go-lnurl"
)

const (
	separator    = "@"
	uriPrefix    = "lightning:"
	wellKnownDir = "/.well-known/lnurlp/"
)

// Address is a parsed user@domain Lightning Address.
type Address struct {
	Username string
	Domain   string
}

// Parse splits a Lightning Address into username and domain. A leading
// lightning: URI prefix and surrounding whitespace are ignored. The address
// must contain exactly one separator and both parts must be non-empty.
func Parse(address string) (Address, error) {
	address = strings.TrimSpace(address)
	if len(address) >= len(uriPrefix) && strings.EqualFold(address[:len(uriPrefix)], uriPrefix) {
		address = address[len(uriPrefix):]
	}

	parts := strings.Split(address, separator)
	switch {
	case len(parts) < 2:
		return Address{}, malformed("missing separator")
	case len(parts) > 2:
		return Address{}, malformed("more than one separator")
	}

	username, domain := parts[0], parts[1]
	if username == "" {
		return Address{}, malformed("empty username")
	}
	if domain == "" {
		return Address{}, malformed("empty domain")
	}
	// both parts end up in the well-known URL
	if strings.ContainsAny(username, "/?# \t\r\n") || strings.ContainsAny(domain, "/?# \t\r\n") {
		return Address{}, malformed("invalid character")
	}
	return Address{Username: username, Domain: domain}, nil
}

// String returns the user@domain form of the address.
func (a Address) String() string {
	return a.Username + separator + a.Domain
}

// IsOnion reports whether the domain is a Tor hidden service.
func (a Address) IsOnion() bool {
	return strings.HasSuffix(strings.ToLower(a.Domain), ".onion")
}

// URL returns the well-known discovery URL of the address. Onion domains
// are contacted over plain http.
func (a Address) URL() string {
	scheme := "https://"
	if a.IsOnion() {
		scheme = "http://"
	}
	return scheme + a.Domain + wellKnownDir + a.Username
}

// LNURL returns the bech32 encoded LNURL of the discovery URL.
func (a Address) LNURL() (string, error) {
	return lnurl.LNURLEncode(a.URL())
}
