// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"time"
)

// SyncState is the replication state of a [LogEntry].
//
//	unsynced -> syncing -> synced
//	                    \-> failed
//
// synced and failed are terminal; the server never retries.
type SyncState string

const (
	SyncStateUnsynced SyncState = "unsynced"
	SyncStateSyncing  SyncState = "syncing"
	SyncStateSynced   SyncState = "synced"
	SyncStateFailed   SyncState = "failed"
)

// ErrTerminalSyncState is returned when a state transition is attempted on an
// entry that already reached synced or failed.
var ErrTerminalSyncState = errors.New("log entry is already in a terminal sync state")

// IsTerminal reports whether no further transition is allowed.
func (s SyncState) IsTerminal() bool {
	return s == SyncStateSynced || s == SyncStateFailed
}

// MarkSyncing moves an unsynced entry into processing.
func (l *LogEntry) MarkSyncing() error {
	if l.SyncState.IsTerminal() {
		return ErrTerminalSyncState
	}
	l.SyncState = SyncStateSyncing
	l.SyncTime = nil
	l.SyncError = nil
	return nil
}

// MarkSynced records a successful application at now.
func (l *LogEntry) MarkSynced(now time.Time) error {
	if l.SyncState.IsTerminal() {
		return ErrTerminalSyncState
	}
	syncTime := now.UnixMilli()
	l.SyncState = SyncStateSynced
	l.SyncTime = &syncTime
	l.SyncError = nil
	return nil
}

// MarkFailed records a failed application at now with cause as the reason.
func (l *LogEntry) MarkFailed(now time.Time, cause error) error {
	if l.SyncState.IsTerminal() {
		return ErrTerminalSyncState
	}
	syncTime := now.UnixMilli()
	reason := "unknown error"
	if cause != nil && cause.Error() != "" {
		reason = cause.Error()
	}
	l.SyncState = SyncStateFailed
	l.SyncTime = &syncTime
	l.SyncError = &reason
	return nil
}
