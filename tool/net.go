package tool

import "net"

// RejectUnsupportNetworkInterface filters interfaces that cannot serve the dashboard to the LAN.
func RejectUnsupportNetworkInterface(iface *net.Interface) bool {
	if iface.Flags&net.FlagUp == 0 {
		return true
	}
	if iface.Flags&net.FlagLoopback != 0 {
		return true
	}
	if iface.Flags&net.FlagPointToPoint != 0 {
		return true // utun / tun / vpn
	}
	return false
}

// GetLANIPv4 returns the first private IPv4 address of a usable interface, or "" when none.
func GetLANIPv4() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		DefaultLogger.Errorf("Failed to get network interfaces: %v", err)
		return ""
	}
	for _, iface := range interfaces {
		if RejectUnsupportNetworkInterface(&iface) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && ip.IsPrivate() {
				return ip.String()
			}
		}
	}
	return ""
}

// IsLoopbackOrPrivate reports whether ip is a loopback or RFC1918/ULA address.
func IsLoopbackOrPrivate(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate()
}
