package clientinfo

import (
	"context"
	"net"
	"net/netip"
)

// AddrClassifier reports whether ip is local to the network or host.
type AddrClassifier func(ctx context.Context, ip string) bool

// interfaceAddrs lists the host's interface addresses.
var interfaceAddrs = net.InterfaceAddrs

// IsLocalAddr reports whether ip is a loopback, private, link-local or
// unspecified address, or is bound to one of this host's interfaces.
// Empty or unparseable input is not local.
func IsLocalAddr(ctx context.Context, ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() || addr.IsInterfaceLocalMulticast() {
		return true
	}

	if ctx.Err() != nil {
		return false
	}
	return boundLocally(addr)
}

// boundLocally reports whether addr is assigned to a local interface.
func boundLocally(addr netip.Addr) bool {
	addrs, err := interfaceAddrs()
	if err != nil {
		return false
	}
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		default:
			continue
		}
		local, ok := netip.AddrFromSlice(ip)
		if ok && local.Unmap() == addr {
			return true
		}
	}
	return false
}
