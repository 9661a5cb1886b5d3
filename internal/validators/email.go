package validators

import (
	"net"
	"strings"
)

// Resolver is the subset of net.Resolver used for domain checks.
type Resolver interface {
	LookupMX(name string) ([]*net.MX, error)
	LookupIP(host string) ([]net.IP, error)
}

type netResolver struct{}

func (netResolver) LookupMX(name string) ([]*net.MX, error) { return net.LookupMX(name) }
func (netResolver) LookupIP(host string) ([]net.IP, error)  { return net.LookupIP(host) }

var DefaultResolver Resolver = netResolver{}

func IsEmailDomainValid(email string) bool {
	return isEmailDomainValid(DefaultResolver, email)
}

func isEmailDomainValid(r Resolver, email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := r.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := r.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
