package kea

import (
	"context"

	"github.com/vitistack/kea-hostimport/pkg/interfaces/hostsinkinterface"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

// Sink writes hosts through the Kea control agent, one reservation-add per
// host. The agent has no transactions, so hosts added before a failure stay.
type Sink struct {
	Kea *Service
}

var _ hostsinkinterface.HostSink = (*Sink)(nil)

func NewSink(s *Service) *Sink {
	return &Sink{Kea: s}
}

func (s *Sink) Write(ctx context.Context, hosts []keamodels.Host) error {
	for i, h := range hosts {
		if err := s.Kea.AddReservation(ctx, h); err != nil {
			return &hostsinkinterface.SinkError{Index: i, Committed: i, Host: h, Err: err}
		}
	}
	return nil
}

func (s *Sink) Close() error { return nil }
