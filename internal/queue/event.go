// Package queue defines message payloads exchanged over the broker and the
// background consumer that records them.
package queue

// Queue name for listing change events.
const ListingQueueName = "listing.changed"

// Actions carried by a ListingChangedEvent.
const (
	ListingCreated = "created"
	ListingUpdated = "updated"
	ListingDeleted = "deleted"
	ListingsPurged = "purged"
)

// ListingChangedEvent is published whenever the listing catalog mutates.
// It carries enough for downstream consumers (audit log, cache warmers,
// analytics) without querying the primary database. ListingID is zero for
// the purged action.
type ListingChangedEvent struct {
	Action    string `json:"action"`
	ListingID int64  `json:"listing_id,omitempty"`
	Title     string `json:"title,omitempty"`
	At        string `json:"at"` // RFC3339 UTC, set by the publisher
}
