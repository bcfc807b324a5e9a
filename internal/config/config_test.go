package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]interface{}{"STORAGE": "memory"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, CancelModeDelete, cfg.StudentCancelMode)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.True(t, cfg.MigrateOnStart)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestFromViperRequiresDSNForPostgres(t *testing.T) {
	_, err := FromViper(newViper(map[string]interface{}{"STORAGE": "postgres", "DB_DSN": ""}))
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestFromViperRequiresSecretInProduction(t *testing.T) {
	_, err := FromViper(newViper(map[string]interface{}{
		"STORAGE":    "memory",
		"ENV":        "production",
		"JWT_SECRET": "",
	}))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestFromViperRejectsUnknownValues(t *testing.T) {
	_, err := FromViper(newViper(map[string]interface{}{"STORAGE": "mongo"}))
	assert.Error(t, err)

	_, err = FromViper(newViper(map[string]interface{}{"STORAGE": "memory", "STUDENT_CANCEL_MODE": "archive"}))
	assert.Error(t, err)

	_, err = FromViper(newViper(map[string]interface{}{"STORAGE": "memory", "TIMEZONE": "Mars/Olympus"}))
	assert.Error(t, err)
}

func TestFromViperTimezone(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]interface{}{
		"STORAGE":             "memory",
		"TIMEZONE":            "Europe/Moscow",
		"STUDENT_CANCEL_MODE": "STATUS",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
	assert.Equal(t, CancelModeStatus, cfg.StudentCancelMode)
}
