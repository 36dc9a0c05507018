// Package dryrun provides a HostSink that only reports what would be written.
package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vitistack/common/pkg/loggers/vlog"
	"github.com/vitistack/common/pkg/serialize"
	"github.com/vitistack/kea-hostimport/pkg/interfaces/hostsinkinterface"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

// Sink logs every host it receives. When Out is set each host is also
// written to it as one JSON document per line.
type Sink struct {
	Out     io.Writer
	Written int
}

var _ hostsinkinterface.HostSink = (*Sink)(nil)

func New(out io.Writer) *Sink {
	return &Sink{Out: out}
}

func (s *Sink) Write(ctx context.Context, hosts []keamodels.Host) error {
	for i, h := range hosts {
		if err := ctx.Err(); err != nil {
			return &hostsinkinterface.SinkError{Index: i, Committed: i, Host: h, Err: err}
		}
		vlog.Info("DRY RUN - would insert host", "hostname", h.Hostname, "host", serialize.JSON(h))
		if s.Out != nil {
			line, err := json.Marshal(h)
			if err == nil {
				_, err = fmt.Fprintln(s.Out, string(line))
			}
			if err != nil {
				return &hostsinkinterface.SinkError{Index: i, Committed: i, Host: h, Err: err}
			}
		}
		s.Written++
	}
	return nil
}

func (s *Sink) Close() error { return nil }
