//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package main is the entry point for ecomart.
package main

import (
	"fmt"
	"os"

	"github.com/ecomart/ecomart/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
