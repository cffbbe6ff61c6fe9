// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package supervisor runs the server's long-lived services under a suture v4
supervisor tree.

	company-finder
	├── data-layer
	│   ├── ingest-controller
	│   ├── reload-scheduler (if RELOAD_SCHEDULE is set)
	│   └── session-manager
	├── messaging-layer
	│   └── websocket-hub
	└── api-layer
	    └── http-server

Each layer restarts its own children with backoff. Supervisor events are
logged through sutureslog into the zerolog-backed slog handler from the
logging package.

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.Wire(supervisor.Components{Ingest: ctrl, Sessions: mgr, Hub: hub, HTTP: httpSvc})
	err := tree.Serve(ctx)
*/
package supervisor
