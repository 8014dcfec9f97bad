package dbi

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// ErrNoDriver is returned when neither the configured driver nor any
// fallback can open a database.
var ErrNoDriver = errors.New("no usable database driver")

// fallbackDrivers are tried in order when the configured driver is unusable.
// The pure-Go driver needs no cgo and is always last to fail.
var fallbackDrivers = []string{types.BackendSQLite}

// checkDriver is overridden in tests.
var checkDriver = CheckDriver

// CheckDriver reports whether the named database/sql driver can open and
// ping an in-memory database. The cgo driver fails here in binaries built
// with CGO_ENABLED=0.
func CheckDriver(name string) error {
	db, err := sql.Open(name, ":memory:")
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Ping()
}

// selectDriver returns preferred when it works, otherwise the first working
// fallback. Falling back is logged as a warning.
func selectDriver(preferred string, log *zap.Logger) (string, error) {
	err := checkDriver(preferred)
	if err == nil {
		return preferred, nil
	}
	for _, name := range fallbackDrivers {
		if name == preferred {
			continue
		}
		if checkDriver(name) == nil {
			log.Warn("database driver unavailable, using fallback",
				zap.String("driver", preferred),
				zap.String("fallback", name),
				zap.Error(err))
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s: %v", ErrNoDriver, preferred, err)
}

// dsn builds the data source name for a database file, enabling foreign
// key enforcement on every connection.
func dsn(driver, path string) string {
	switch driver {
	case types.BackendSQLite3:
		return "file:" + path + "?_foreign_keys=1"
	default:
		return "file:" + path + "?_pragma=foreign_keys(1)"
	}
}
