// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the device client runtime: a command-line front
// end over the client services, the local outbox and the periodic sync
// worker.
package client
