package normalizer

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HardwareAddressLen is the number of bytes of an ethernet address.
const HardwareAddressLen = 6

// EncodeHardwareAddress turns a colon separated MAC into its binary form.
// Each octet is left padded to two hex digits, so "1:2:3:a:B:c" and
// "01:02:03:0a:0b:0c" encode identically.
func EncodeHardwareAddress(mac string) ([]byte, error) {
	parts := strings.Split(mac, ":")
	var b strings.Builder
	for _, part := range parts {
		if len(part) < 2 {
			b.WriteString(strings.Repeat("0", 2-len(part)))
		}
		b.WriteString(part)
	}
	out, err := hex.DecodeString(b.String())
	if err != nil {
		return nil, err
	}
	if len(out) != HardwareAddressLen {
		return nil, fmt.Errorf("decoded to %d bytes, want %d", len(out), HardwareAddressLen)
	}
	return out, nil
}
