package initialchecks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitistack/common/pkg/loggers/vlog"
	keaservice "github.com/vitistack/kea-hostimport/internal/services/kea"
	"github.com/vitistack/kea-hostimport/internal/subnetmap"
	"github.com/vitistack/kea-hostimport/internal/util/subnet"
	"github.com/vitistack/kea-hostimport/pkg/interfaces/keainterface"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

// Pinger is a sink that can verify it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Retry a few times to tolerate slow startup/order
var (
	maxRetries    = 3
	perTryTimeout = 5 * time.Second
	backoff       = 2 * time.Second
)

// CheckSink verifies connectivity to the host sink before anything is
// imported, retrying a few times before giving up.
func CheckSink(ctx context.Context, target Pinger, name string) error {
	vlog.Info("checking connectivity to host sink", "sink", name)
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		tryCtx, cancel := context.WithTimeout(ctx, perTryTimeout)
		err := target.Ping(tryCtx)
		cancel()
		if err == nil {
			vlog.Info("host sink connectivity OK", "sink", name)
			return nil
		}
		lastErr = err
		vlog.Warn("host sink connectivity attempt failed", "sink", name, "attempt", attempt, "error", err)
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return fmt.Errorf("failed to connect to %s after %d attempts: %w", name, maxRetries, lastErr)
}

// KeaPinger adapts a Kea client to Pinger.
type KeaPinger struct {
	Client keainterface.KeaClient
}

// Ping sends version-get. If the server returns an 'unsupported' error text,
// it's still proof of reachability, so we treat it as success.
func (p KeaPinger) Ping(ctx context.Context) error {
	req := keamodels.Request{Command: "version-get"}
	resp, err := p.Client.Send(ctx, req)
	if err != nil {
		return err
	}
	if resp.Result == 0 {
		return nil
	}
	if resp.Text != "" {
		lower := strings.ToLower(resp.Text)
		if strings.Contains(lower, "unsupported") || strings.Contains(lower, "not supported") {
			return nil
		}
	}
	return fmt.Errorf("kea responded with non-success: %s", resp.Text)
}

// SubnetReport lists what CheckKeaSubnets found wrong with the subnet mapping.
type SubnetReport struct {
	// Missing are mapped or default subnet ids Kea does not know.
	Missing []int
	// Outside are rules whose prefix matches addresses outside the Kea subnet
	// their id points at.
	Outside []subnetmap.PrefixRule
}

// CheckKeaSubnets compares the subnet mapping with the subnets Kea serves and
// warns about every mismatch it reports.
func CheckKeaSubnets(ctx context.Context, kea *keaservice.Service, table *subnetmap.Table, defaultSubnetID int) (SubnetReport, error) {
	known, err := kea.ListSubnetIDs(ctx)
	if err != nil {
		return SubnetReport{}, err
	}
	seen := map[int]bool{}
	var report SubnetReport
	check := func(id int, source string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if _, ok := known[id]; !ok {
			vlog.Warn("subnet id is not configured in kea", "subnetID", id, "source", source)
			report.Missing = append(report.Missing, id)
		}
	}
	for _, r := range table.Rules() {
		check(r.SubnetID, r.Prefix)
		if cidr, ok := known[r.SubnetID]; ok && prefixOutside(r.Prefix, cidr) {
			vlog.Warn("subnet mapping prefix is not inside the kea subnet", "prefix", r.Prefix,
				"subnetID", r.SubnetID, "subnet", cidr)
			report.Outside = append(report.Outside, r)
		}
	}
	check(defaultSubnetID, "default")
	return report, nil
}

// prefixOutside is true only when the prefix is octet aligned and provably
// matches addresses outside cidr.
func prefixOutside(prefix, cidr string) bool {
	if cidr == "" {
		return false
	}
	if _, aligned, err := subnet.RangeOfPrefix(prefix); err != nil || !aligned {
		return false
	}
	within, err := subnet.PrefixWithinCIDR(prefix, cidr)
	return err == nil && !within
}
