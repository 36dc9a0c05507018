// Package hostimport runs the import pipeline: host declarations are
// extracted from dhcpd configuration text, normalized into Kea hosts rows and
// handed to a sink in document order.
package hostimport

import (
	"context"
	"errors"
	"iter"

	"github.com/vitistack/common/pkg/loggers/vlog"
	"github.com/vitistack/kea-hostimport/internal/leaseparser"
	"github.com/vitistack/kea-hostimport/internal/services/normalizer"
	"github.com/vitistack/kea-hostimport/pkg/interfaces/hostsinkinterface"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

// Options are the per-run import parameters.
type Options struct {
	DefaultSubnetID int
	NoIPClientClass string
	// DryRun only changes how results are reported; the sink decides what is written.
	DryRun bool
	Debug  bool
}

// Rejection is a reservation that could not be normalized.
type Rejection struct {
	Reservation leaseparser.RawReservation
	Err         error
}

// Result summarises one import run.
type Result struct {
	Extracted int
	Hosts     []keamodels.Host
	Rejected  []Rejection
	Written   int
}

// Service wires a subnet resolver and a host sink together.
type Service struct {
	Resolver normalizer.Resolver
	Sink     hostsinkinterface.HostSink
	Options  Options
}

func New(resolver normalizer.Resolver, sink hostsinkinterface.HostSink, opts Options) *Service {
	return &Service{Resolver: resolver, Sink: sink, Options: opts}
}

// ImportText extracts and imports the reservations declared in text.
func (s *Service) ImportText(ctx context.Context, text string) (Result, error) {
	return s.Run(ctx, leaseparser.Extract(text))
}

// ImportFile extracts and imports the reservations declared in the file at path.
func (s *Service) ImportFile(ctx context.Context, path string) (Result, error) {
	reservations, err := leaseparser.ExtractFile(path)
	if err != nil {
		return Result{}, err
	}
	return s.Run(ctx, reservations)
}

// Run normalizes reservations and writes the accepted hosts to the sink in
// one call. Rejected reservations are reported and skipped. A sink failure is
// returned as is; Result.Written then holds the hosts the sink kept.
func (s *Service) Run(ctx context.Context, reservations iter.Seq[leaseparser.RawReservation]) (Result, error) {
	res := s.Normalize(reservations)
	s.reportRejections(res.Rejected)

	if len(res.Hosts) == 0 {
		vlog.Info("no hosts to write", "extracted", res.Extracted, "rejected", len(res.Rejected))
		return res, nil
	}

	if err := s.Sink.Write(ctx, res.Hosts); err != nil {
		var sinkErr *hostsinkinterface.SinkError
		if errors.As(err, &sinkErr) {
			res.Written = sinkErr.Committed
			vlog.Error("host sink failed", "hostname", sinkErr.Host.Hostname,
				"hw-address", sinkErr.Host.HWAddress(), "position", sinkErr.Index,
				"committed", sinkErr.Committed, "error", sinkErr.Err)
		} else {
			vlog.Error("host sink failed", "error", err)
		}
		return res, err
	}
	res.Written = len(res.Hosts)

	vlog.Info("import finished", "extracted", res.Extracted, "written", res.Written,
		"rejected", len(res.Rejected), "dryRun", s.Options.DryRun)
	return res, nil
}

// Normalize converts every reservation, keeping input order. Live runs and
// dry runs both go through here so they accept and reject the same records.
func (s *Service) Normalize(reservations iter.Seq[leaseparser.RawReservation]) Result {
	opts := normalizer.Options{
		DefaultSubnetID: s.Options.DefaultSubnetID,
		NoIPClientClass: s.Options.NoIPClientClass,
	}

	var res Result
	for raw := range reservations {
		res.Extracted++
		if s.Options.Debug {
			s.debugReservation(raw)
		}
		host, err := normalizer.Normalize(raw, s.Resolver, opts)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Reservation: raw, Err: err})
			continue
		}
		res.Hosts = append(res.Hosts, host)
	}
	return res
}

func (s *Service) debugReservation(raw leaseparser.RawReservation) {
	vlog.Info("host declaration found", "hostname", raw.Hostname,
		"hw-address", raw.HardwareAddress, "fixed-address", raw.FixedAddress)
	if s.Resolver == nil {
		return
	}
	if id, ok := s.Resolver.Resolve(raw.FixedAddress); ok {
		vlog.Info("subnet match found", "address", raw.FixedAddress, "subnetID", id)
	} else {
		vlog.Info("no subnet match found, using default", "address", raw.FixedAddress, "subnetID", s.Options.DefaultSubnetID)
	}
}

func (s *Service) reportRejections(rejected []Rejection) {
	msg := "rejecting host declaration"
	if s.Options.DryRun {
		msg = "DRY RUN - would reject host declaration"
	}
	for _, r := range rejected {
		vlog.Warn(msg, "hostname", r.Reservation.Hostname,
			"hw-address", r.Reservation.HardwareAddress, "fixed-address", r.Reservation.FixedAddress,
			"error", r.Err)
	}
}
