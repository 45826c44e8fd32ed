package model

import (
	"time"
)

// Term is a user-confirmed vocabulary item persisted in the terms table.
// The term string is unique across the table.
type Term struct {
	ID        int64     `json:"id"`
	Term      string    `json:"term"`
	Analysis  string    `json:"analysis"`
	CreatedAt time.Time `json:"created_at"`
}

// TermExplanation is the structured explanation card the model produces for
// a single term. It is returned to the caller as parsed, without validation.
type TermExplanation struct {
	Explanation  string          `json:"explanation"`
	Pros         []string        `json:"pros"`
	Cons         []string        `json:"cons"`
	Alternatives []Alternative   `json:"alternatives"`
	Links        []ReferenceLink `json:"links"`
}

// Alternative names a related component or technique worth considering.
type Alternative struct {
	Term        string `json:"term"`
	Description string `json:"description"`
}

// ReferenceLink points at an external resource for a term.
type ReferenceLink struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"` // Image, Supplier, Community
}
