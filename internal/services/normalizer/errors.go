package normalizer

import "fmt"

// EncodingError rejects a reservation whose hardware address does not decode
// to exactly six bytes.
type EncodingError struct {
	Hostname        string
	HardwareAddress string
	Err             error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("host %q: invalid hardware address %q: %v", e.Hostname, e.HardwareAddress, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// AddressError rejects a reservation whose fixed-address is not a dotted-decimal IPv4 address.
type AddressError struct {
	Hostname     string
	FixedAddress string
	Err          error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("host %q: invalid fixed-address %q: %v", e.Hostname, e.FixedAddress, e.Err)
}

func (e *AddressError) Unwrap() error { return e.Err }
