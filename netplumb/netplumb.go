// Package netplumb implements the Network Plumber: host-side bridge and
// veth setup for a container's network namespace, and the matching
// child-side interface configuration.
package netplumb

import "strconv"

// Fixed network constants. Addresses are caller-supplied; dynamic
// allocation and subnet validation are out of scope.
const (
	// BridgeName is the host bridge every container veth attaches to.
	BridgeName = "br0"

	// BridgeIP is the bridge's own address and the container's default
	// gateway.
	BridgeIP = "10.0.0.1"

	// PrefixLen is the fixed subnet prefix length shared by the bridge
	// and every container address.
	PrefixLen = 16

	// ChildIfName is the interface name the veth peer carries once moved
	// into the container's network namespace.
	ChildIfName = "eth0"
)

// VethHostName returns the host-side veth interface name for a container
// identified by pid, per the fixed veth{pid} convention.
func VethHostName(pid int) string {
	return "veth" + strconv.Itoa(pid)
}
