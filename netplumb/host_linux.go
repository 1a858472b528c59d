package netplumb

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"syscall"

	"github.com/vishvananda/netlink"
)

// PlumbHost runs the host-side network setup for the container identified
// by pid: ensuring the bridge exists, creating the veth pair, moving the
// peer into the container's network namespace, attaching the host end to
// the bridge, and enabling forwarding and NAT for the bridge subnet.
//
// Best-effort steps (bridge creation, bridge address assignment) tolerate
// an "already exists" failure; everything else must succeed.
func PlumbHost(pid int) error {
	br, err := ensureBridge()
	if err != nil {
		return fmt.Errorf("ensure bridge: %w", err)
	}
	if err := netlink.LinkSetUp(br); err != nil {
		return fmt.Errorf("bridge up: %w", err)
	}
	if err := ensureBridgeAddr(br); err != nil {
		return fmt.Errorf("bridge addr: %w", err)
	}

	hostName := VethHostName(pid)
	veth := &netlink.Veth{
		LinkAttrs: netlink.LinkAttrs{Name: hostName},
		PeerName:  ChildIfName,
	}
	if err := netlink.LinkAdd(veth); err != nil {
		return fmt.Errorf("veth add: %w", err)
	}

	peer, err := netlink.LinkByName(ChildIfName)
	if err != nil {
		return fmt.Errorf("lookup veth peer: %w", err)
	}
	if err := netlink.LinkSetNsPid(peer, pid); err != nil {
		return fmt.Errorf("move peer into netns(%d): %w", pid, err)
	}

	hostLink, err := netlink.LinkByName(hostName)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", hostName, err)
	}
	if err := netlink.LinkSetUp(hostLink); err != nil {
		return fmt.Errorf("%s up: %w", hostName, err)
	}
	if err := netlink.LinkSetMaster(hostLink, br); err != nil {
		return fmt.Errorf("attach %s to %s: %w", hostName, BridgeName, err)
	}

	if err := enableIPForwarding(); err != nil {
		return fmt.Errorf("ip_forward: %w", err)
	}
	if err := appendMasquerade(); err != nil {
		return fmt.Errorf("masquerade: %w", err)
	}
	return nil
}

func ensureBridge() (*netlink.Bridge, error) {
	if link, err := netlink.LinkByName(BridgeName); err == nil {
		br, ok := link.(*netlink.Bridge)
		if !ok {
			return nil, fmt.Errorf("%s exists but is not a bridge", BridgeName)
		}
		return br, nil
	}

	br := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: BridgeName}}
	if err := netlink.LinkAdd(br); err != nil && !alreadyExists(err) {
		return nil, err
	}
	link, err := netlink.LinkByName(BridgeName)
	if err != nil {
		return nil, err
	}
	br, ok := link.(*netlink.Bridge)
	if !ok {
		return nil, fmt.Errorf("%s exists but is not a bridge", BridgeName)
	}
	return br, nil
}

func ensureBridgeAddr(br *netlink.Bridge) error {
	addr, err := netlink.ParseAddr(fmt.Sprintf("%s/%d", BridgeIP, PrefixLen))
	if err != nil {
		return err
	}
	if err := netlink.AddrAdd(br, addr); err != nil && !alreadyExists(err) {
		return err
	}
	return nil
}

func alreadyExists(err error) bool {
	return errors.Is(err, syscall.EEXIST) || errors.Is(err, os.ErrExist)
}

func enableIPForwarding() error {
	return os.WriteFile("/proc/sys/net/ipv4/ip_forward", []byte("1"), 0644)
}

// appendMasquerade shells out to iptables the way the original launcher
// does, rather than reimplementing netfilter rule construction.
func appendMasquerade() error {
	_, subnet, err := net.ParseCIDR(fmt.Sprintf("%s/%d", BridgeIP, PrefixLen))
	if err != nil {
		return err
	}
	cmd := exec.Command("iptables", "-t", "nat", "-A", "POSTROUTING", "-s", subnet.String(), "-j", "MASQUERADE")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s", err, out)
	}
	return nil
}
