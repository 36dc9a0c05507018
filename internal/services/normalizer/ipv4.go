package normalizer

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// IPv4ToUint32 converts a dotted-decimal address to its big-endian integer
// form. An empty address converts to 0.
func IPv4ToUint32(address string) (uint32, error) {
	if address == "" {
		return 0, nil
	}
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return 0, err
	}
	if !addr.Is4() {
		return 0, fmt.Errorf("not an IPv4 address")
	}
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:]), nil
}
