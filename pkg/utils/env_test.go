package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("LS_INT", " 42 ")
	t.Setenv("LS_BAD_INT", "abc")
	t.Setenv("LS_BOOL", "Yes")
	t.Setenv("LS_DUR", "45s")
	t.Setenv("LS_DUR_SECS", "12")
	t.Setenv("LS_DUR_BAD", "soon")

	assert.Equal(t, int64(42), GetIntEnv("LS_INT"))
	assert.Equal(t, int64(0), GetIntEnv("LS_BAD_INT"))
	assert.Equal(t, int64(0), GetIntEnv("LS_MISSING"))
	assert.True(t, GetBoolEnv("LS_BOOL"))
	assert.False(t, GetBoolEnv("LS_MISSING"))
	assert.Equal(t, 45*time.Second, GetDurationEnv("LS_DUR", time.Second))
	assert.Equal(t, 12*time.Second, GetDurationEnv("LS_DUR_SECS", time.Second))
	assert.Equal(t, time.Second, GetDurationEnv("LS_DUR_BAD", time.Second))
	assert.Equal(t, time.Minute, GetDurationEnv("LS_MISSING", time.Minute))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// nothing to load
	assert.Error(t, LoadEnv("test"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LS_FROM_BASE=base\nLS_SHARED=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("LS_SHARED=test\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("LS_FROM_BASE")
		os.Unsetenv("LS_SHARED")
	})

	require.NoError(t, LoadEnv("test"))
	assert.Equal(t, "base", GetEnv("LS_FROM_BASE"))
	assert.Equal(t, "test", GetEnv("LS_SHARED"))
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "sqlite", "sqlite-pure", "mysql", "postgres", "pg"} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}
	_, err := Dialector("oracle", "dsn")
	assert.Error(t, err)
}
