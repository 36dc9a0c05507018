// Package hostsdb writes normalized hosts rows into a Kea hosts table over
// database/sql. PostgreSQL goes through the pgx stdlib driver, MySQL through
// go-sql-driver/mysql and SQLite through go-sqlite3.
package hostsdb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/vitistack/common/pkg/loggers/vlog"
	"github.com/vitistack/kea-hostimport/internal/consts"
	"github.com/vitistack/kea-hostimport/pkg/interfaces/hostsinkinterface"
	"github.com/vitistack/kea-hostimport/pkg/models/keamodels"

	// register database/sql drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// HostsDB is a HostSink backed by a SQL database.
type HostsDB struct {
	DB        *sql.DB
	driver    string
	insert    string
	perRecord bool
}

var _ hostsinkinterface.HostSink = (*HostsDB)(nil)

// Open connects to the database described by cfg. The connection is not
// verified; call Ping for that.
func Open(cfg Config) (*HostsDB, error) {
	driverName, err := cfg.driverName()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg, err)
	}
	if cfg.Driver == consts.SinkSQLite {
		// every connection to ":memory:" would get its own database
		db.SetMaxOpenConns(1)
	}
	return New(db, cfg.Driver, cfg.PerRecord), nil
}

// New wraps an already opened database. driver selects the placeholder syntax.
func New(db *sql.DB, driver string, perRecord bool) *HostsDB {
	return &HostsDB{
		DB:        db,
		driver:    driver,
		insert:    insertQuery(driver),
		perRecord: perRecord,
	}
}

func insertQuery(driver string) string {
	placeholders := make([]string, len(keamodels.HostColumns))
	for i := range placeholders {
		if driver == consts.SinkPostgres {
			placeholders[i] = "$" + strconv.Itoa(i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	return "INSERT INTO hosts (" + strings.Join(keamodels.HostColumns, ", ") +
		") VALUES (" + strings.Join(placeholders, ", ") + ")"
}

// Ping verifies the database is reachable.
func (d *HostsDB) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Write inserts hosts in order. In batch mode all rows share one transaction
// that is rolled back on the first failure; in per-record mode each row is
// committed on its own and rows written before a failure stay. Either way a
// failure is returned as a *hostsinkinterface.SinkError naming the row.
func (d *HostsDB) Write(ctx context.Context, hosts []keamodels.Host) error {
	if len(hosts) == 0 {
		return nil
	}
	if d.perRecord {
		return d.writeEach(ctx, hosts)
	}
	return d.writeBatch(ctx, hosts)
}

func (d *HostsDB) writeBatch(ctx context.Context, hosts []keamodels.Host) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return &hostsinkinterface.SinkError{Index: 0, Host: hosts[0], Err: fmt.Errorf("begin transaction: %w", err)}
	}
	stmt, err := tx.PrepareContext(ctx, d.insert)
	if err != nil {
		_ = tx.Rollback()
		return &hostsinkinterface.SinkError{Index: 0, Host: hosts[0], Err: fmt.Errorf("prepare insert: %w", err)}
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, h := range hosts {
		if _, err := stmt.ExecContext(ctx, h.Values()...); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				vlog.Error("rollback failed", "error", rbErr)
			}
			return &hostsinkinterface.SinkError{Index: i, Host: h, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		last := len(hosts) - 1
		return &hostsinkinterface.SinkError{Index: last, Host: hosts[last], Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

func (d *HostsDB) writeEach(ctx context.Context, hosts []keamodels.Host) error {
	for i, h := range hosts {
		if _, err := d.DB.ExecContext(ctx, d.insert, h.Values()...); err != nil {
			return &hostsinkinterface.SinkError{Index: i, Committed: i, Host: h, Err: err}
		}
	}
	return nil
}

func (d *HostsDB) Close() error {
	return d.DB.Close()
}
