package subnet

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// PrefixRange is the address range covered by a textual dotted prefix.
type PrefixRange struct {
	First net.IP // lowest address starting with the prefix (e.g., 10.123.1.0)
	Last  net.IP // highest address starting with the prefix (e.g., 10.123.1.255)
}

// RangeOfPrefix returns the addresses a textual prefix can match when every
// octet it names is complete. A trailing dot completes the last octet
// ("10.123.1."), and so does a last octet that no further digit can extend
// ("128.111.106"). Otherwise the prefix matches several unrelated ranges
// ("10.123.1.7" also matches 10.123.1.70-79) and is reported with ok == false.
func RangeOfPrefix(prefix string) (r *PrefixRange, ok bool, err error) {
	dotted := strings.HasSuffix(prefix, ".")
	trimmed := strings.TrimSuffix(prefix, ".")
	if trimmed == "" {
		return nil, false, fmt.Errorf("empty prefix")
	}
	parts := strings.Split(trimmed, ".")
	if len(parts) > 4 || (dotted && len(parts) == 4) {
		return nil, false, fmt.Errorf("prefix %q has more than four octets", prefix)
	}

	octets := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v > 255 {
			return nil, false, fmt.Errorf("invalid octet %q in prefix %q", part, prefix)
		}
		octets[i] = v
	}
	if last := octets[len(octets)-1]; !dotted && last != 0 && last*10 <= 255 {
		return nil, false, nil
	}

	first := make(net.IP, 4)
	last := make(net.IP, 4)
	for i := range 4 {
		if i >= len(octets) {
			first[i], last[i] = 0, 255
			continue
		}
		first[i], last[i] = byte(octets[i]), byte(octets[i])
	}
	return &PrefixRange{First: first, Last: last}, true, nil
}

// PrefixWithinCIDR reports whether every address matched by prefix lies in cidr.
// Prefixes that are not octet aligned are never considered within.
func PrefixWithinCIDR(prefix, cidr string) (bool, error) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return false, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	if ipnet.IP.To4() == nil {
		return false, fmt.Errorf("only IPv4 CIDRs are supported: %s", cidr)
	}
	r, ok, err := RangeOfPrefix(prefix)
	if err != nil || !ok {
		return false, err
	}
	return ipnet.Contains(r.First) && ipnet.Contains(r.Last), nil
}
