package hostsdb

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/vitistack/kea-hostimport/internal/consts"
)

// Config holds the connection details of a Kea hosts database. It is built
// by the caller; nothing in this package reads credentials on its own.
type Config struct {
	Driver   string // consts.SinkPostgres, consts.SinkMySQL or consts.SinkSQLite
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // postgres only
	Path     string // sqlite3 only
	Timeout  time.Duration

	// PerRecord commits every row on its own instead of one transaction for the batch.
	PerRecord bool
}

// driverName returns the database/sql driver registered for the dialect.
func (c Config) driverName() (string, error) {
	switch c.Driver {
	case consts.SinkPostgres:
		return "pgx", nil
	case consts.SinkMySQL:
		return "mysql", nil
	case consts.SinkSQLite:
		return "sqlite3", nil
	}
	return "", fmt.Errorf("unsupported hosts database driver %q", c.Driver)
}

// DSN builds the data source name for the configured driver.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case consts.SinkPostgres:
		port := c.Port
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.User, c.Password),
			Host:   net.JoinHostPort(c.Host, strconv.Itoa(port)),
			Path:   "/" + c.Database,
		}
		q := url.Values{}
		if c.SSLMode != "" {
			q.Set("sslmode", c.SSLMode)
		}
		if c.Timeout > 0 {
			q.Set("connect_timeout", strconv.Itoa(int(c.Timeout.Seconds())))
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	case consts.SinkMySQL:
		port := c.Port
		if port == 0 {
			port = 3306
		}
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
		mc.DBName = c.Database
		mc.Timeout = c.Timeout
		return mc.FormatDSN(), nil
	case consts.SinkSQLite:
		if c.Path == "" {
			return "", fmt.Errorf("sqlite3 hosts database needs a path")
		}
		return c.Path, nil
	}
	return "", fmt.Errorf("unsupported hosts database driver %q", c.Driver)
}

// String describes the target without credentials.
func (c Config) String() string {
	if c.Driver == consts.SinkSQLite {
		return c.Driver + ":" + c.Path
	}
	return fmt.Sprintf("%s://%s@%s:%d/%s", c.Driver, c.User, c.Host, c.Port, c.Database)
}
