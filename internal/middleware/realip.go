package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealIP sets RemoteAddr from X-Forwarded-For or X-Real-IP, but only when
// the connecting peer is a trusted proxy. Forwarding headers from anyone
// else are ignored. With no trusted proxies the middleware is a no-op.
func RealIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	isTrusted := func(addr netip.Addr) bool {
		addr = addr.Unmap()
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		if len(trusted) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer, ok := remoteAddr(r.RemoteAddr)
			if ok && isTrusted(peer) {
				if client, found := forwardedClient(r, isTrusted); found {
					r.RemoteAddr = client.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwardedClient walks X-Forwarded-For from the right and returns the first
// hop that is not a trusted proxy. Entries left of it are client-controlled.
func forwardedClient(r *http.Request, isTrusted func(netip.Addr) bool) (netip.Addr, bool) {
	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				return netip.Addr{}, false
			}
			if !isTrusted(addr) {
				return addr.Unmap(), true
			}
		}
		return netip.Addr{}, false
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		addr, err := netip.ParseAddr(xrip)
		if err != nil {
			return netip.Addr{}, false
		}
		return addr.Unmap(), true
	}
	return netip.Addr{}, false
}

func remoteAddr(v string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(v)
	if err != nil {
		host = v
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr, true
}
