package mysql

import (
	"database/sql"
	"net"
	"net/url"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/ezschema/internal/database"
	"github.com/koustreak/ezschema/internal/errs"
)

const (
	defaultMaxOpenConns    = 4
	defaultMaxIdleConns    = 1
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 10 * time.Minute
	defaultPort            = "3306"
)

// buildPool applies pool settings, falling back to package defaults.
func buildPool(db *sql.DB, cfg *database.Config) {
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	database.Tune(db, cfg)
}

// buildConfig accepts either a mysql:// URL or a native driver DSN
// (user:pass@tcp(host:port)/db).
func buildConfig(cfg *database.Config) (*gomysql.Config, error) {
	var (
		mc  *gomysql.Config
		err error
	)
	if strings.HasPrefix(strings.ToLower(cfg.DSN), "mysql://") {
		mc, err = fromURL(cfg.DSN)
	} else {
		mc, err = gomysql.ParseDSN(cfg.DSN)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql dsn "+database.Redact(cfg.DSN), err)
	}

	mc.ParseTime = true
	if cfg.ConnectTimeout > 0 {
		mc.Timeout = cfg.ConnectTimeout
	}
	return mc, nil
}

func fromURL(dsn string) (*gomysql.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}

	mc := gomysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = u.Host
	if u.Port() == "" {
		mc.Addr = net.JoinHostPort(u.Hostname(), defaultPort)
	}
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
	}

	if q := u.Query(); len(q) > 0 {
		mc.Params = make(map[string]string, len(q))
		for k := range q {
			mc.Params[k] = q.Get(k)
		}
	}
	return mc, nil
}
