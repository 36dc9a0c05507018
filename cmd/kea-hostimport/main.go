package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vitistack/common/pkg/loggers/vlog"
	"github.com/vitistack/kea-hostimport/internal/clients"
	"github.com/vitistack/kea-hostimport/internal/consts"
	"github.com/vitistack/kea-hostimport/internal/services/hostimport"
	"github.com/vitistack/kea-hostimport/internal/services/initialchecks"
	keaservice "github.com/vitistack/kea-hostimport/internal/services/kea"
	"github.com/vitistack/kea-hostimport/internal/settings"
	"github.com/vitistack/kea-hostimport/internal/subnetmap"
	"github.com/vitistack/kea-hostimport/pkg/clients/dryrun"
	"github.com/vitistack/kea-hostimport/pkg/clients/hostsdb"
	"github.com/vitistack/kea-hostimport/pkg/interfaces/hostsinkinterface"
)

// errRejected is returned when --fail-on-reject is set and a record was rejected.
var errRejected = errors.New("one or more host declarations were rejected")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		vlog.Error("kea-hostimport failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kea-hostimport --file-path FILE [OPTIONS]",
		Short:         "Import static host declarations from a dhcpd configuration into Kea",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.BindFlags(cmd.Flags(), flagKeys); err != nil {
				return err
			}
			settings.Init()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringP("file-path", "f", "", "dhcpd configuration file to read host declarations from")
	flags.Int("default-subnet-id", 0, "subnet id used when no prefix matches the fixed address")
	flags.String("no-ip-client-class", consts.DefaultNoIPClientClass, "client class given to hosts without a fixed address")
	flags.StringArray("subnet-map", nil, "address prefix to subnet id mapping as PREFIX=ID; repeat in priority order")
	flags.Bool("strict-subnet-map", true, "fail on malformed --subnet-map entries instead of skipping them")
	flags.Bool("debug", false, "log every host declaration and subnet decision")
	flags.Bool("dry-run", false, "print the rows that would be written and write nothing")
	flags.String("sink", consts.SinkPostgres, "where hosts are written: postgres, mysql, sqlite3 or kea")
	flags.String("commit-mode", consts.CommitBatch, "batch (one transaction) or per-record")
	flags.Bool("fail-on-reject", false, "exit non-zero when any host declaration is rejected")
	flags.String("db-path", "", "sqlite3 database file")

	return cmd
}

var flagKeys = map[string]string{
	"file-path":          consts.LEASE_FILE,
	"default-subnet-id":  consts.DEFAULT_SUBNET_ID,
	"no-ip-client-class": consts.NO_IP_CLIENT_CLASS,
	"subnet-map":         consts.SUBNET_MAP,
	"strict-subnet-map":  consts.SUBNET_MAP_STRICT,
	"debug":              consts.DEBUG,
	"dry-run":            consts.DRY_RUN,
	"sink":               consts.SINK,
	"commit-mode":        consts.COMMIT_MODE,
	"fail-on-reject":     consts.FAIL_ON_REJECT,
	"db-path":            consts.DB_PATH,
}

func run(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := viper.GetString(consts.LEASE_FILE)
	if path == "" {
		return fmt.Errorf("--file-path (or %s) is required", consts.LEASE_FILE)
	}

	table, err := subnetmap.Parse(viper.GetStringSlice(consts.SUBNET_MAP), viper.GetBool(consts.SUBNET_MAP_STRICT))
	if err != nil {
		return err
	}
	defaultSubnetID := viper.GetInt(consts.DEFAULT_SUBNET_ID)
	dryRun := viper.GetBool(consts.DRY_RUN)

	sink, err := openSink(ctx, table, defaultSubnetID, dryRun)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			vlog.Warn("closing host sink failed", "error", cerr)
		}
	}()

	svc := hostimport.New(table, sink, hostimport.Options{
		DefaultSubnetID: defaultSubnetID,
		NoIPClientClass: viper.GetString(consts.NO_IP_CLIENT_CLASS),
		DryRun:          dryRun,
		Debug:           viper.GetBool(consts.DEBUG),
	})
	res, err := svc.ImportFile(ctx, path)
	if err != nil {
		return err
	}
	if len(res.Rejected) > 0 && viper.GetBool(consts.FAIL_ON_REJECT) {
		return fmt.Errorf("%w: %d of %d", errRejected, len(res.Rejected), res.Extracted)
	}
	return nil
}

// openSink builds the configured host sink and checks that it is reachable.
// Dry runs never touch a backend.
func openSink(ctx context.Context, table *subnetmap.Table, defaultSubnetID int, dryRun bool) (hostsinkinterface.HostSink, error) {
	if dryRun {
		return dryrun.New(os.Stdout), nil
	}

	switch name := strings.ToLower(viper.GetString(consts.SINK)); name {
	case consts.SinkKea:
		clients.InitializeKeaClient()
		if err := initialchecks.CheckSink(ctx, initialchecks.KeaPinger{Client: clients.KeaClient}, name); err != nil {
			return nil, err
		}
		kea := keaservice.New(clients.KeaClient, viper.GetString(consts.KEA_OPERATION_TARGET))
		if _, err := initialchecks.CheckKeaSubnets(ctx, kea, table, defaultSubnetID); err != nil {
			vlog.Warn("could not list kea subnets", "error", err)
		}
		return keaservice.NewSink(kea), nil
	case consts.SinkPostgres, consts.SinkMySQL, consts.SinkSQLite:
		cfg, err := clients.HostsDBConfig()
		if err != nil {
			return nil, err
		}
		db, err := hostsdb.Open(cfg)
		if err != nil {
			return nil, err
		}
		if err := initialchecks.CheckSink(ctx, db, cfg.String()); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown %s %q", consts.SINK, name)
	}
}
