package models

// SyncRequest is one synchronization round submitted by a device.
type SyncRequest struct {
	// Logs are the device's pending entries, applied in this order.
	Logs []LogEntry `json:"logs"`

	// LastSyncTime is the SyncTimeStamp the device received on its previous
	// round. Nil or zero requests the full visible history.
	LastSyncTime *int64 `json:"lastSyncTime,omitempty"`
}

// SubmittedIDs returns the ids of all submitted entries.
func (r SyncRequest) SubmittedIDs() []string {
	ids := make([]string, 0, len(r.Logs))
	for _, l := range r.Logs {
		if l.ID != "" {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// SyncResponse is always returned for a processed round, even when some
// entries failed: Results carries the per-entry outcome.
type SyncResponse struct {
	Results []LogResult `json:"results"`

	// Changes are entries the caller has not seen yet, ordered by OperatedAt.
	Changes []LogEntry `json:"changes"`

	// SyncTimeStamp is the server time (epoch ms) the device should send as
	// LastSyncTime next round.
	SyncTimeStamp int64 `json:"syncTimeStamp"`
}
