package middleware

import (
	"fmt"
	"net"

	"github.com/labstack/echo/v4"
)

// ClientIPExtractor decides which address identifies a client for rate
// limiting and logs. With no trusted proxies it is the TCP peer and forwarding
// headers are ignored. Otherwise X-Forwarded-For is honoured only for hops
// inside the given CIDRs.
func ClientIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}
