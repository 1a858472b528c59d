package netplumb

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

// PlumbChild runs the container-side network setup, after the veth peer
// has already been moved into this network namespace by PlumbHost: bring
// up loopback, assign ip to eth0, bring eth0 up, and install a default
// route via the bridge.
func PlumbChild(ip string) error {
	if err := linkUp("lo"); err != nil {
		return fmt.Errorf("lo up: %w", err)
	}

	eth0, err := netlink.LinkByName(ChildIfName)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", ChildIfName, err)
	}

	addr, err := netlink.ParseAddr(fmt.Sprintf("%s/%d", ip, PrefixLen))
	if err != nil {
		return fmt.Errorf("parse address %s/%d: %w", ip, PrefixLen, err)
	}
	if err := netlink.AddrAdd(eth0, addr); err != nil {
		return fmt.Errorf("assign %s to %s: %w", ip, ChildIfName, err)
	}

	if err := netlink.LinkSetUp(eth0); err != nil {
		return fmt.Errorf("%s up: %w", ChildIfName, err)
	}

	route := &netlink.Route{
		LinkIndex: eth0.Attrs().Index,
		Scope:     netlink.SCOPE_UNIVERSE,
		Gw:        net.ParseIP(BridgeIP),
	}
	if err := netlink.RouteAdd(route); err != nil {
		return fmt.Errorf("default route via %s: %w", BridgeIP, err)
	}
	return nil
}

func linkUp(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return err
	}
	return netlink.LinkSetUp(link)
}
