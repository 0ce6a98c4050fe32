// Package netinfo reports the addresses shown on the boot screen.
package netinfo

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
)

const unavailable = "N/A"

// LocalIP returns the first non-loopback IPv4 address of the host.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return unavailable
	}
	return firstIPv4(addrs)
}

func firstIPv4(addrs []net.Addr) string {
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return unavailable
}

// PublicIP asks an ipify-compatible endpoint for the public address.
// Any failure yields "N/A"; the boot screen is informational only.
func PublicIP(ctx context.Context, client *http.Client, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return unavailable
	}
	resp, err := client.Do(req)
	if err != nil {
		return unavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return unavailable
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return unavailable
	}
	ip := net.ParseIP(strings.TrimSpace(string(body)))
	if ip == nil {
		return unavailable
	}
	return ip.String()
}
