package keamodels

import (
	"encoding/json"
	"net"
	"net/netip"
)

// IdentifierTypeHWAddress is the Kea dhcp_identifier_type for hardware addresses.
const IdentifierTypeHWAddress = 0

// HostColumns lists the Kea hosts table columns written for a Host, in the
// order returned by Host.Values.
var HostColumns = []string{
	"dhcp_identifier",
	"dhcp_identifier_type",
	"dhcp4_subnet_id",
	"dhcp6_subnet_id",
	"ipv4_address",
	"hostname",
	"dhcp4_client_classes",
	"dhcp6_client_classes",
	"dhcp4_next_server",
	"dhcp4_server_hostname",
	"dhcp4_boot_file_name",
	"user_context",
	"auth_key",
}

// Host is one row of the Kea hosts table.
// Nil pointers are stored as NULL.
type Host struct {
	DhcpIdentifier      []byte
	DhcpIdentifierType  int
	Dhcp4SubnetID       int
	Dhcp6SubnetID       *int
	IPv4Address         uint32
	Hostname            string
	Dhcp4ClientClasses  *string
	Dhcp6ClientClasses  string
	Dhcp4NextServer     uint32
	Dhcp4ServerHostname string
	Dhcp4BootFileName   string
	UserContext         string
	AuthKey             string
}

// HWAddress renders the identifier as a colon separated MAC address.
func (h Host) HWAddress() string {
	return net.HardwareAddr(h.DhcpIdentifier).String()
}

// IPv4 returns the reserved address, or the zero Addr when none is reserved.
func (h Host) IPv4() netip.Addr {
	if h.IPv4Address == 0 {
		return netip.Addr{}
	}
	a := h.IPv4Address
	return netip.AddrFrom4([4]byte{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)})
}

// Values returns the column values in HostColumns order, ready to be bound
// to an INSERT statement.
func (h Host) Values() []any {
	var subnet6 any
	if h.Dhcp6SubnetID != nil {
		subnet6 = int64(*h.Dhcp6SubnetID)
	}
	var classes4 any
	if h.Dhcp4ClientClasses != nil {
		classes4 = *h.Dhcp4ClientClasses
	}
	return []any{
		h.DhcpIdentifier,
		int64(h.DhcpIdentifierType),
		int64(h.Dhcp4SubnetID),
		subnet6,
		int64(h.IPv4Address),
		h.Hostname,
		classes4,
		h.Dhcp6ClientClasses,
		int64(h.Dhcp4NextServer),
		h.Dhcp4ServerHostname,
		h.Dhcp4BootFileName,
		h.UserContext,
		h.AuthKey,
	}
}

// MarshalJSON renders the identifier as a MAC and the address in dotted form,
// which is what an operator reading dry-run output expects.
func (h Host) MarshalJSON() ([]byte, error) {
	var ip string
	if addr := h.IPv4(); addr.IsValid() {
		ip = addr.String()
	}
	return json.Marshal(&struct {
		DhcpIdentifier      string  `json:"dhcp_identifier"`
		DhcpIdentifierType  int     `json:"dhcp_identifier_type"`
		Dhcp4SubnetID       int     `json:"dhcp4_subnet_id"`
		Dhcp6SubnetID       *int    `json:"dhcp6_subnet_id"`
		IPv4Address         uint32  `json:"ipv4_address"`
		IPv4                string  `json:"ipv4,omitempty"`
		Hostname            string  `json:"hostname"`
		Dhcp4ClientClasses  *string `json:"dhcp4_client_classes"`
		Dhcp6ClientClasses  string  `json:"dhcp6_client_classes"`
		Dhcp4NextServer     uint32  `json:"dhcp4_next_server"`
		Dhcp4ServerHostname string  `json:"dhcp4_server_hostname"`
		Dhcp4BootFileName   string  `json:"dhcp4_boot_file_name"`
		UserContext         string  `json:"user_context"`
		AuthKey             string  `json:"auth_key"`
	}{
		DhcpIdentifier:      h.HWAddress(),
		DhcpIdentifierType:  h.DhcpIdentifierType,
		Dhcp4SubnetID:       h.Dhcp4SubnetID,
		Dhcp6SubnetID:       h.Dhcp6SubnetID,
		IPv4Address:         h.IPv4Address,
		IPv4:                ip,
		Hostname:            h.Hostname,
		Dhcp4ClientClasses:  h.Dhcp4ClientClasses,
		Dhcp6ClientClasses:  h.Dhcp6ClientClasses,
		Dhcp4NextServer:     h.Dhcp4NextServer,
		Dhcp4ServerHostname: h.Dhcp4ServerHostname,
		Dhcp4BootFileName:   h.Dhcp4BootFileName,
		UserContext:         h.UserContext,
		AuthKey:             h.AuthKey,
	})
}
