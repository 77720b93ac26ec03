package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAMPUSDESK_DATABASE_DRIVER", "sqlite")
	t.Setenv("CAMPUSDESK_TICKET_READ_TRACKING", "off")

	cfg, err := Load("test")

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "off", cfg.Ticket.ReadTracking)
	assert.True(t, cfg.Ticket.ReopenClosedOnReply)
	assert.Equal(t, 150, cfg.Ticket.PreviewLength)
	assert.Equal(t, 32, cfg.Ticket.NumberMaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Same(t, cfg, Get())
}

func TestLoad_RejectsUnknownReadTracking(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAMPUSDESK_TICKET_READ_TRACKING", "sometimes")

	_, err := Load("")

	assert.ErrorContains(t, err, "read_tracking")
}
