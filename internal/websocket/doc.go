// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package websocket pushes ingestion progress and session updates to viewers.

It uses gorilla/websocket with a hub-client architecture:

  - Hub: owns the client set and fans messages out
  - Client: one connection with a read and a write goroutine
  - Message: typed envelope {"type": ..., "data": ...}

Message Types:

  - ingest_progress: sent to every client after each committed batch and
    on every state change (started, complete, failed). Data is an
    ingest.ProgressSummary.
  - session_update: sent only to clients subscribed to that session after
    a recomputation. Data is a session.Snapshot without rows.
  - subscribe: sent by a client as {"type":"subscribe","data":{"session_id":"..."}}
    to receive that session's updates.
  - ping / pong: application level keepalive.

The Hub implements ingest.Observer and session.Publisher, so wiring is:

	hub := websocket.NewHub()
	controller.Subscribe(hub)
	sessions.SetPublisher(hub)

Thread Safety:

Broadcast methods never block. When the hub queue is full the message is
dropped and counted; when a client's queue is full the client is dropped.

Connection settings:
  - writeWait: 10 seconds
  - pongWait: 60 seconds
  - pingPeriod: 54 seconds
  - maxMessageSize: 64 KB (clients only send small control messages)
*/
package websocket
