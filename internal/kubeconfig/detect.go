package kubeconfig

import (
	"fmt"
	"net"
)

// DetectHostIP returns the primary IPv4 address of this host: the first
// global unicast IPv4 assigned to an interface that is up and not a
// loopback. This is the address a cluster running inside this environment
// is reachable at from outside.
func DetectHostIP() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("failed to list network interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addr, ok := interfaceIPv4(iface)
		if ok {
			return addr, nil
		}
	}

	return "", fmt.Errorf("no global unicast IPv4 address found on any interface")
}

// DetectInterfaceIP returns the first global unicast IPv4 address assigned
// to the named interface.
func DetectInterfaceIP(name string) (string, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return "", fmt.Errorf("failed to look up interface %q: %w", name, err)
	}

	addr, ok := interfaceIPv4(*iface)
	if !ok {
		return "", fmt.Errorf("interface %q has no global unicast IPv4 address", name)
	}

	return addr, nil
}

// interfaceIPv4 extracts the first global unicast IPv4 address from an interface.
func interfaceIPv4(iface net.Interface) (string, bool) {
	addrs, err := iface.Addrs()
	if err != nil {
		return "", false
	}
	return firstGlobalIPv4(addrs)
}

// firstGlobalIPv4 returns the first global unicast IPv4 address in addrs.
func firstGlobalIPv4(addrs []net.Addr) (string, bool) {
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		default:
			continue
		}

		if ip == nil || !ip.IsGlobalUnicast() {
			continue
		}

		if ipv4 := ip.To4(); ipv4 != nil {
			return ipv4.String(), true
		}
	}

	return "", false
}
