// Package fetcher fetches the full text of articles whose body was cut short
// by the news source.
package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
)

// checkURL accepts only http(s) URLs with a host. With denyPrivate set the
// host must not resolve to a loopback, private or link-local address, so a
// feed cannot point the fetcher at the local network.
func checkURL(ctx context.Context, raw string, denyPrivate bool) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("%w: scheme %q not allowed", ErrInvalidURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	if !denyPrivate {
		return nil
	}

	addrs, err := resolve(ctx, host)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", ErrInvalidURL, host, err)
	}
	for _, addr := range addrs {
		if internalAddr(addr) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateIP, host, addr)
		}
	}
	return nil
}

// resolve skips DNS for literal addresses.
func resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{addr}, nil
	}
	return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
}

func internalAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}
