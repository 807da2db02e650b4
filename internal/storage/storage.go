package storage

import (
	"net/url"
	"strings"

	"github.com/ewhitmore/focal/internal/storage/postgres"
	"github.com/ewhitmore/focal/internal/storage/sqlite"
)

// NewSQLiteStore creates the default on-disk store.
func NewSQLiteStore(path string) Provider {
	return sqlite.NewStore(path)
}

// NewPostgresStore creates a PostgreSQL-backed store from a connection
// string. Credentials must come from the environment, .pgpass, or the OS
// keyring, never embedded in the string.
func NewPostgresStore(connStr string) Provider {
	return postgres.New(connStr)
}

// NewJSONStore creates a single-file JSON store, mostly useful for tests and
// portable setups.
func NewJSONStore(path string) Provider {
	return newJSONStore(path)
}

// IsPostgresConnString reports whether the config value selects the Postgres
// backend.
func IsPostgresConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials detects a password embedded in a PostgreSQL
// connection string, URL or DSN style.
func HasEmbeddedCredentials(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.User != nil {
		if _, set := u.User.Password(); set {
			return true
		}
	}

	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return true
		}
	}
	return false
}
