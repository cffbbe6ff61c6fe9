// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package services adapts components with non-suture lifecycles to
suture.Service.

  - HTTPServerService: ListenAndServe/Shutdown to Serve(ctx)
  - ReloadScheduler: a robfig/cron schedule that requests ingestion reloads

Components that already block in Serve(ctx) (the ingestion controller, the
session manager and the WebSocket hub) are added to the tree directly.

Services return ctx.Err() on shutdown so that suture does not restart them,
and wrap startup failures so that it does.
*/
package services
