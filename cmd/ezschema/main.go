// Command ezschema compiles model documents and applies them to a database.
package main

import (
	"os"

	"github.com/koustreak/ezschema/internal/cli"

	// Database engines available to --dsn.
	_ "github.com/koustreak/ezschema/internal/database/mysql"
	_ "github.com/koustreak/ezschema/internal/database/postgres"
	_ "github.com/koustreak/ezschema/internal/database/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
