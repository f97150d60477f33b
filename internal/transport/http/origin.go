package http

import (
	"net/url"
	"regexp"
	"strings"
)

// OriginMatcher is one rule in the allow-list. Rules are evaluated in
// order; first match wins.
type OriginMatcher interface {
	Matches(origin string) bool
}

type exactMatcher struct {
	origin string
}

func (m exactMatcher) Matches(origin string) bool { return origin == m.origin }

type wildcardMatcher struct {
	pattern *regexp.Regexp
}

func (m wildcardMatcher) Matches(origin string) bool { return m.pattern.MatchString(origin) }

type loopbackMatcher struct{}

func (loopbackMatcher) Matches(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// OriginPolicy decides which request origins may use the proxy. The config
// value "*" allows everything; entries containing "*" are simple globs;
// "localhost" and "127.0.0.1" admit any loopback origin regardless of port;
// anything else must match exactly.
type OriginPolicy struct {
	allowAll bool
	matchers []OriginMatcher
}

func NewOriginPolicy(allowed []string) *OriginPolicy {
	p := &OriginPolicy{}
	for _, entry := range allowed {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
		case entry == "*":
			p.allowAll = true
		case entry == "localhost" || entry == "127.0.0.1":
			p.matchers = append(p.matchers, loopbackMatcher{})
		case strings.Contains(entry, "*"):
			p.matchers = append(p.matchers, wildcardMatcher{pattern: globToRegexp(entry)})
		default:
			p.matchers = append(p.matchers, exactMatcher{origin: entry})
		}
	}
	return p
}

// Allowed reports whether the origin passes the policy. An absent origin
// header never passes.
func (p *OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if p.allowAll {
		return true
	}
	for _, m := range p.matchers {
		if m.Matches(origin) {
			return true
		}
	}
	return false
}

func globToRegexp(glob string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(glob)
	return regexp.MustCompile("^" + strings.ReplaceAll(escaped, `\*`, ".*") + "$")
}
