package config

import (
	"path/filepath"
	"time"
)

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Token       string        `mapstructure:"token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CreateDelay time.Duration `mapstructure:"create_delay"`
	Retry       RetryConfig   `mapstructure:"retry"`
}

type RetryConfig struct {
	Attempts  int           `mapstructure:"attempts"`
	BaseDelay time.Duration `mapstructure:"base_delay"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// DataConfig describes the on-disk layout the toolset works against.
// Spreadsheets are read from SheetDir; everything else is generated output.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

func (d *DataConfig) SheetDir() string {
	return filepath.Join(d.Dir, "snsf")
}

func (d *DataConfig) SnapshotDir() string {
	return filepath.Join(d.Dir, "snapshots")
}

func (d *DataConfig) LookupDir() string {
	return filepath.Join(d.Dir, "lookups")
}

func (d *DataConfig) RunDir() string {
	return filepath.Join(d.Dir, "runs")
}
