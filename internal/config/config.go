// Package config loads host configuration from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete host configuration.
type Config struct {
	Host  HostSettings  `hcl:"host,block"`
	Table TableSettings `hcl:"table,block"`
}

// HostSettings contains network-level configuration.
type HostSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSettings contains the table rules shared by every peer.
// AutoMoveDealer is a pointer: with a plain bool an omitted key and an
// explicit false both decode to false, and the default here is true.
type TableSettings struct {
	MaxSeats       int   `hcl:"max_seats,optional"`
	SmallBlind     int   `hcl:"small_blind,optional"`
	BigBlind       int   `hcl:"big_blind,optional"`
	BuyIn          int   `hcl:"buy_in,optional"`
	AutoMoveDealer *bool `hcl:"auto_move_dealer,optional"`
	Debug          bool  `hcl:"debug,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	autoMoveDealer := true
	return &Config{
		Host: HostSettings{
			Address:  "0.0.0.0",
			Port:     8080,
			LogLevel: "info",
		},
		Table: TableSettings{
			MaxSeats:       10,
			SmallBlind:     5,
			BigBlind:       10,
			BuyIn:          1000,
			AutoMoveDealer: &autoMoveDealer,
		},
	}
}

// Load reads configuration from an HCL file. A missing file is not an
// error: defaults are returned so `homegame host` works with no setup.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Host.Address == "" {
		cfg.Host.Address = def.Host.Address
	}
	if cfg.Host.Port == 0 {
		cfg.Host.Port = def.Host.Port
	}
	if cfg.Host.LogLevel == "" {
		cfg.Host.LogLevel = def.Host.LogLevel
	}
	if cfg.Table.MaxSeats == 0 {
		cfg.Table.MaxSeats = def.Table.MaxSeats
	}
	if cfg.Table.SmallBlind == 0 {
		cfg.Table.SmallBlind = def.Table.SmallBlind
	}
	if cfg.Table.BigBlind == 0 {
		cfg.Table.BigBlind = def.Table.BigBlind
	}
	if cfg.Table.BuyIn == 0 {
		cfg.Table.BuyIn = def.Table.BuyIn
	}
	if cfg.Table.AutoMoveDealer == nil {
		cfg.Table.AutoMoveDealer = def.Table.AutoMoveDealer
	}
}
