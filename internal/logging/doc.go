// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package logging provides centralized zerolog-based logging.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logging.Info().Int("parts", 12).Msg("Snapshot parts discovered")
	logging.Error().Err(err).Int("part_index", 3).Msg("Part failed")

	// With request, run and session IDs from context
	logging.Ctx(ctx).Info().Str("category", "orsr").Msg("Category selected")

# Configuration

Environment variables (read through internal/config):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include caller file and line (default: false)

# Supervisor Integration

The suture supervisor logs through log/slog. NewSlogLogger returns a
*slog.Logger whose handler forwards to zerolog, so supervisor events land
in the same JSON stream.

# Best Practices

Always terminate log chains with .Msg() or .Send(), and prefer structured
fields over Msgf.
*/
package logging
