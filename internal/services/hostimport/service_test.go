package hostimport

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vitistack/kea-hostimport/internal/services/normalizer"
	"github.com/vitistack/kea-hostimport/internal/subnetmap"
	"github.com/vitistack/kea-hostimport/pkg/clients/dryrun"
	"github.com/vitistack/kea-hostimport/pkg/interfaces/hostsinkinterface"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"
)

// memorySink keeps what it is given; failAt makes the write at that position fail.
type memorySink struct {
	hosts  []keamodels.Host
	calls  int
	failAt int
}

func (m *memorySink) Write(ctx context.Context, hosts []keamodels.Host) error {
	m.calls++
	for i, h := range hosts {
		if m.failAt >= 0 && i == m.failAt {
			return &hostsinkinterface.SinkError{Index: i, Committed: i, Host: h, Err: errors.New("duplicate key")}
		}
		m.hosts = append(m.hosts, h)
	}
	return nil
}

func (m *memorySink) Close() error { return nil }

// rollbackSink fails at the last host and keeps none of the batch.
type rollbackSink struct{}

func (rollbackSink) Write(ctx context.Context, hosts []keamodels.Host) error {
	last := len(hosts) - 1
	return &hostsinkinterface.SinkError{Index: last, Host: hosts[last], Err: errors.New("duplicate key")}
}

func (rollbackSink) Close() error { return nil }

const leases = `
host alpha {
  hardware ethernet 00:11:22:33:44:55;
  fixed-address 128.111.106.10;
}
host beta {
  hardware ethernet aa:bb:cc:dd:ee:ff;
}
`

var _ = Describe("Service", func() {
	var (
		table *subnetmap.Table
		sink  *memorySink
		opts  Options
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		table, err = subnetmap.Parse([]string{"128.111.106=3"}, true)
		Expect(err).NotTo(HaveOccurred())
		sink = &memorySink{failAt: -1}
		opts = Options{DefaultSubnetID: 0, NoIPClientClass: "no-ip-reservations"}
		ctx = context.Background()
	})

	It("imports the reservations in document order", func() {
		res, err := New(table, sink, opts).ImportText(ctx, leases)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Extracted).To(Equal(2))
		Expect(res.Written).To(Equal(2))
		Expect(res.Rejected).To(BeEmpty())
		Expect(sink.calls).To(Equal(1))
		Expect(sink.hosts).To(HaveLen(2))

		alpha := sink.hosts[0]
		Expect(alpha.Hostname).To(Equal("alpha"))
		Expect(alpha.Dhcp4SubnetID).To(Equal(3))
		Expect(alpha.IPv4Address).To(Equal(uint32(2159280394)))
		Expect(alpha.Dhcp4ClientClasses).To(BeNil())
		Expect(alpha.Dhcp6SubnetID).To(BeNil())
		Expect(alpha.DhcpIdentifier).To(Equal([]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}))

		beta := sink.hosts[1]
		Expect(beta.Hostname).To(Equal("beta"))
		Expect(beta.Dhcp4SubnetID).To(Equal(0))
		Expect(beta.IPv4Address).To(Equal(uint32(0)))
		Expect(beta.Dhcp4ClientClasses).NotTo(BeNil())
		Expect(*beta.Dhcp4ClientClasses).To(Equal("no-ip-reservations"))
	})

	It("rejects a malformed MAC without blocking the rest of the batch", func() {
		text := "host bad { hardware ethernet zz:zz:zz:zz:zz:zz; }\n" + leases
		res, err := New(table, sink, opts).ImportText(ctx, text)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Extracted).To(Equal(3))
		Expect(res.Rejected).To(HaveLen(1))
		Expect(res.Rejected[0].Reservation.Hostname).To(Equal("bad"))
		Expect(res.Rejected[0].Reservation.HardwareAddress).To(Equal("zz:zz:zz:zz:zz:zz"))

		var encErr *normalizer.EncodingError
		Expect(errors.As(res.Rejected[0].Err, &encErr)).To(BeTrue())
		Expect(sink.hosts).To(HaveLen(2))
	})

	It("does not call the sink when nothing survives", func() {
		res, err := New(table, sink, opts).ImportText(ctx, "host x { fixed-address 1.2.3.4; }")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Extracted).To(Equal(0))
		Expect(sink.calls).To(Equal(0))
	})

	It("reports the host in flight when the sink fails", func() {
		sink.failAt = 1
		res, err := New(table, sink, opts).ImportText(ctx, leases)
		var sinkErr *hostsinkinterface.SinkError
		Expect(errors.As(err, &sinkErr)).To(BeTrue())
		Expect(sinkErr.Host.Hostname).To(Equal("beta"))
		Expect(sinkErr.Index).To(Equal(1))
		Expect(res.Written).To(Equal(1))
		Expect(sink.hosts).To(HaveLen(1))
	})

	It("counts nothing as written when the sink rolls the batch back", func() {
		res, err := New(table, rollbackSink{}, opts).ImportText(ctx, leases)
		var sinkErr *hostsinkinterface.SinkError
		Expect(errors.As(err, &sinkErr)).To(BeTrue())
		Expect(sinkErr.Index).To(Equal(1))
		Expect(res.Written).To(Equal(0))
		Expect(res.Hosts).To(HaveLen(2))
	})

	It("falls back to the default subnet when no rule matches", func() {
		opts.DefaultSubnetID = 7
		text := "host gamma { hardware ethernet 1:2:3:a:B:c; fixed-address 192.168.5.1; }"
		_, err := New(table, sink, opts).ImportText(ctx, text)
		Expect(err).NotTo(HaveOccurred())
		Expect(sink.hosts).To(HaveLen(1))
		Expect(sink.hosts[0].Dhcp4SubnetID).To(Equal(7))
		Expect(sink.hosts[0].DhcpIdentifier).To(Equal([]byte{0x01, 0x02, 0x03, 0x0a, 0x0b, 0x0c}))
	})

	It("gives dry runs the same records and rejections as live runs", func() {
		text := "host bad { hardware ethernet 00:11; }\n" + leases

		live, err := New(table, sink, opts).ImportText(ctx, text)
		Expect(err).NotTo(HaveOccurred())

		var out bytes.Buffer
		dryOpts := opts
		dryOpts.DryRun = true
		preview := dryrun.New(&out)
		dry, err := New(table, preview, dryOpts).ImportText(ctx, text)
		Expect(err).NotTo(HaveOccurred())

		Expect(dry.Hosts).To(Equal(live.Hosts))
		Expect(dry.Rejected).To(HaveLen(len(live.Rejected)))
		Expect(preview.Written).To(Equal(2))
		Expect(strings.Count(out.String(), "\n")).To(Equal(2))
	})

	It("is repeatable on the same input", func() {
		svc := New(table, sink, Options{DefaultSubnetID: 1, NoIPClientClass: "x", Debug: true})
		first, err := svc.ImportText(ctx, leases)
		Expect(err).NotTo(HaveOccurred())
		second, err := svc.ImportText(ctx, leases)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Hosts).To(Equal(first.Hosts))
	})

	It("reads reservations from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "dhcpd.conf")
		Expect(os.WriteFile(path, []byte(leases), 0o600)).To(Succeed())
		res, err := New(table, sink, opts).ImportFile(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Written).To(Equal(2))

		_, err = New(table, sink, opts).ImportFile(ctx, filepath.Join(GinkgoT().TempDir(), "missing"))
		Expect(err).To(HaveOccurred())
	})
})
