package models

import "time"

// Archive is an immutable snapshot of a page taken just before an
// update overwrote it. Entries are append-only and removed only by an
// explicit purge.
type Archive struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Page   Page      `json:"data"`
	PageID string    `json:"page_id"`
}
