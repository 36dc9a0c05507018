package hostsinkinterface

import (
	"context"
	"fmt"

	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

// HostSink receives normalized hosts rows in order.
type HostSink interface {
	Write(ctx context.Context, hosts []keamodels.Host) error
	Close() error
}

// SinkError reports the host that was being written when a sink failed.
// Index is the position of that host in the slice passed to Write.
// Committed counts the hosts before it that stay written: zero for a sink
// that rolls the whole batch back, Index for one that commits host by host.
type SinkError struct {
	Index     int
	Committed int
	Host      keamodels.Host
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("writing host %q (%s) at position %d: %v", e.Host.Hostname, e.Host.HWAddress(), e.Index, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
