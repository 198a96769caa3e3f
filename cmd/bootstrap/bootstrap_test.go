package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/code-100-precent/LingSync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInitSQL(t *testing.T) {
	db := models.SetupTestDB(t)

	script := `-- sample data
INSERT INTO users (name, email, role, status, created_at, updated_at)
VALUES ('Ada', 'ada@example.com', 'user', 'active', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);

# trailing statement without a semicolon
INSERT INTO activity_logs (action, created_at) VALUES ('Imported', CURRENT_TIMESTAMP)
`
	path := filepath.Join(t.TempDir(), "init.sql")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	require.NoError(t, RunInitSQL(db, path))

	exists, err := models.IsExistsByEmail(db, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRunInitSQL_MissingFile(t *testing.T) {
	db := models.SetupTestDB(t)
	assert.Error(t, RunInitSQL(db, filepath.Join(t.TempDir(), "missing.sql")))
}

func TestRunMigrations(t *testing.T) {
	db := models.SetupTestDB(t, &models.User{})
	require.NoError(t, RunMigrations(db))

	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.Error(t, RunMigrations(nil))
}

func TestSeedAll_Idempotent(t *testing.T) {
	db := models.SetupTestDB(t)
	service := SeedService{db: db}

	require.NoError(t, service.SeedAll())
	require.NoError(t, service.SeedAll())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
