package database

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/pkg/config"
)

func TestNewPostgresDBUnreachable(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "production"},
		Database: config.DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     "1",
			User:     "postgres",
			Password: "postgres",
			Name:     "meeting_notes",
			SSLMode:  "disable",
			MaxConns: 1,
			MinConns: 1,
		},
	}

	db, err := NewPostgresDB(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, db)

	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorCode_DB_CONNECTION_FAILED, appErr.Code)
}
