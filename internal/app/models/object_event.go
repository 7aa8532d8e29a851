package models

import "time"

// ObjectEvent is a single object-created notification, normalized from
// whichever transport delivered it (S3 event record or bucket notification
// message on the queue).
type ObjectEvent struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	ETag      string    `json:"etag,omitempty"`
	Size      int64     `json:"size,omitempty"`
	EventTime time.Time `json:"event_time,omitempty"`
}

// DedupeKey identifies a delivery for idempotent processing. The ETag is
// included so a genuinely changed object under the same key is reprocessed.
func (e ObjectEvent) DedupeKey() string {
	return e.Bucket + "/" + e.Key + "@" + e.ETag
}
