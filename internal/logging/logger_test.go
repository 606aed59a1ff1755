//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Default level = %q, want info", cfg.Level)
	}
	if !cfg.Pretty {
		t.Error("Default config should use pretty console output")
	}
	if cfg.TimeFormat != "15:04:05" {
		t.Errorf("Default time format = %q, want time-of-day only", cfg.TimeFormat)
	}
}

func TestInitSetsLevel(t *testing.T) {
	defer Init(DefaultConfig())

	Init(Config{Level: "debug"})
	if Logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Level = %v, want debug", Logger.GetLevel())
	}

	Init(Config{Level: "error"})
	if Logger.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("Level = %v, want error", Logger.GetLevel())
	}
}

func TestInitInvalidLevelFallsBack(t *testing.T) {
	defer Init(DefaultConfig())

	Init(Config{Level: "loud"})
	if Logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Invalid level should fall back to info, got %v", Logger.GetLevel())
	}
}
