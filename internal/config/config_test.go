package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "homegame.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
host {
  address   = "192.168.1.10"
  port      = 9000
  log_level = "debug"
}

table {
  max_seats        = 6
  small_blind      = 25
  big_blind        = 50
  buy_in           = 5000
  auto_move_dealer = false
}
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.10", cfg.Host.Address)
	assert.Equal(t, 9000, cfg.Host.Port)
	assert.Equal(t, "debug", cfg.Host.LogLevel)
	assert.Equal(t, 6, cfg.Table.MaxSeats)
	assert.Equal(t, 25, cfg.Table.SmallBlind)
	assert.Equal(t, 50, cfg.Table.BigBlind)
	assert.Equal(t, 5000, cfg.Table.BuyIn)

	// Explicit false survives default filling.
	require.NotNil(t, cfg.Table.AutoMoveDealer)
	assert.False(t, *cfg.Table.AutoMoveDealer)
}

func TestLoadFillsMissingValues(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "homegame.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
host {
  port = 9000
}

table {
  buy_in = 2000
}
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host.Address)
	assert.Equal(t, 9000, cfg.Host.Port)
	assert.Equal(t, "info", cfg.Host.LogLevel)
	assert.Equal(t, 10, cfg.Table.MaxSeats)
	assert.Equal(t, 5, cfg.Table.SmallBlind)
	assert.Equal(t, 10, cfg.Table.BigBlind)
	assert.Equal(t, 2000, cfg.Table.BuyIn)

	// An omitted auto_move_dealer means the default, not false.
	require.NotNil(t, cfg.Table.AutoMoveDealer)
	assert.True(t, *cfg.Table.AutoMoveDealer)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`host {`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
