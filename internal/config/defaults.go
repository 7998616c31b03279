package config

import "time"

// Default configuration values.
const (
	DefaultModels     = "db/models.yml"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultPrimaryKey = "id"
	DefaultServerAddr = ":8088"
)

func defaults() map[string]any {
	return map[string]any{
		"models":                      DefaultModels,
		"log.level":                   DefaultLogLevel,
		"log.format":                  DefaultLogFormat,
		"database.max_conns":          4,
		"database.min_conns":          1,
		"database.conn_max_lifetime":  30 * time.Minute,
		"database.conn_max_idle_time": 5 * time.Minute,
		"database.connect_timeout":    10 * time.Second,
		"migrate.prune":               false,
		"migrate.primary_key":         DefaultPrimaryKey,
		"storage.use_ssl":             true,
		"server.addr":                 DefaultServerAddr,
	}
}
