package database

import (
	"path/filepath"
	"testing"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNs(t *testing.T) {
	assert.Equal(t, "libsql://db.turso.io?authToken=abc", TursoDSN("libsql://db.turso.io", "abc"))
	assert.Equal(t, "libsql://db.turso.io", TursoDSN("libsql://db.turso.io", ""))
	assert.Equal(t, "file:/tmp/x.db?_foreign_keys=on&_busy_timeout=5000", SQLiteDSN("/tmp/x.db"))
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	db, err := Open("", path, "", "", Options{MaxOpenConns: 2}, logging.NewDiscardLogger())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, db.Driver)
	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpenLibSQLRequiresURL(t *testing.T) {
	_, err := Open(DriverLibSQL, "", "", "", Options{}, logging.NewDiscardLogger())
	assert.Error(t, err)
}
