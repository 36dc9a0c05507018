// Package normalizer turns parsed host declarations into Kea hosts rows.
package normalizer

import (
	"github.com/vitistack/kea-hostimport/internal/leaseparser"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

// Resolver maps an IPv4 address to a subnet id.
type Resolver interface {
	Resolve(address string) (int, bool)
}

// Options carries the per-run parameters of Normalize.
type Options struct {
	DefaultSubnetID int
	NoIPClientClass string
}

// Normalize builds the hosts row for raw. The subnet comes from resolver, or
// DefaultSubnetID when nothing matches (always the case for reservations
// without a fixed-address, which are also tagged with NoIPClientClass).
//
// A hardware address that does not decode to six bytes yields an
// *EncodingError and an unparsable fixed-address an *AddressError; no
// partial row is returned in either case.
func Normalize(raw leaseparser.RawReservation, resolver Resolver, opts Options) (keamodels.Host, error) {
	identifier, err := EncodeHardwareAddress(raw.HardwareAddress)
	if err != nil {
		return keamodels.Host{}, &EncodingError{Hostname: raw.Hostname, HardwareAddress: raw.HardwareAddress, Err: err}
	}

	ipv4, err := IPv4ToUint32(raw.FixedAddress)
	if err != nil {
		return keamodels.Host{}, &AddressError{Hostname: raw.Hostname, FixedAddress: raw.FixedAddress, Err: err}
	}

	subnetID := opts.DefaultSubnetID
	if resolver != nil {
		if id, ok := resolver.Resolve(raw.FixedAddress); ok {
			subnetID = id
		}
	}

	var classes *string
	if !raw.HasFixedAddress() {
		c := opts.NoIPClientClass
		classes = &c
	}

	return keamodels.Host{
		DhcpIdentifier:      identifier,
		DhcpIdentifierType:  keamodels.IdentifierTypeHWAddress,
		Dhcp4SubnetID:       subnetID,
		Dhcp6SubnetID:       nil,
		IPv4Address:         ipv4,
		Hostname:            raw.Hostname,
		Dhcp4ClientClasses:  classes,
		Dhcp6ClientClasses:  "",
		Dhcp4NextServer:     0,
		Dhcp4ServerHostname: "",
		Dhcp4BootFileName:   "",
		UserContext:         "",
		AuthKey:             "",
	}, nil
}
