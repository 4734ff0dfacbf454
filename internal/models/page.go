package models

import "time"

// Stamp records who touched a page and when.
type Stamp struct {
	By   string    `json:"by"`
	Date time.Time `json:"date"`
}

// Page represents a single wiki page. Depending on configuration the ID
// is either a generated token or the title itself; in the latter case a
// title change also changes the page's identity.
type Page struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Created Stamp  `json:"create"`
	Updated Stamp  `json:"update"`
}
