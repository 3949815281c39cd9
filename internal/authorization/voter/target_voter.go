package voter

import (
	"net/url"
	"strings"

	"github.com/linkit/relay/internal/authorization/attributes"
)

type targetVoter struct {
	allowedHosts []string
}

// NewTargetVoter grants relaying to URLs whose host is listed. An entry starting
// with a dot matches every subdomain of it.
func NewTargetVoter(allowedHosts []string) *targetVoter {
	hosts := make([]string, 0, len(allowedHosts))
	for _, host := range allowedHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	return &targetVoter{allowedHosts: hosts}
}

func (f *targetVoter) Supports(a any) bool {
	_, ok := a.(*url.URL)
	return ok
}

func (f *targetVoter) Vote(a any, attr attributes.Attribute) decision {
	target, _ := a.(*url.URL)
	if target == nil {
		return AccessDenied
	}

	switch attr {
	case attributes.CanForward, attributes.CanPing:
		return f.canReach(target)
	}

	return AccessDenied
}

func (f *targetVoter) canReach(target *url.URL) decision {
	if target.Scheme != "http" && target.Scheme != "https" {
		return AccessDenied
	}
	host := strings.ToLower(target.Hostname())
	if host == "" {
		return AccessDenied
	}
	for _, allowed := range f.allowedHosts {
		if strings.HasPrefix(allowed, ".") {
			if strings.HasSuffix(host, allowed) {
				return AccessGranted
			}
			continue
		}
		if host == allowed {
			return AccessGranted
		}
	}
	return AccessDenied
}
