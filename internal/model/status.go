package model

import "strings"

// Status is the sale state of an item. It is a closed enumeration so that
// invalid codes cannot enter the data model.
type Status int

// Item statuses.
const (
	StatusListed Status = iota
	StatusInStock
	StatusSold
)

// Label returns the display label for a status.
// Unknown codes map to the empty string.
func (s Status) Label() string {
	switch s {
	case StatusListed:
		return "Listed"
	case StatusInStock:
		return "In Stock"
	case StatusSold:
		return "Sold"
	default:
		return ""
	}
}

// Valid reports whether s is one of the defined status codes.
func (s Status) Valid() bool {
	return s >= StatusListed && s <= StatusSold
}

// ParseStatus converts an imported status cell to a status code. It accepts
// labels case-insensitively as well as bare numeric codes. Anything else,
// including the empty string, falls back to StatusListed: imported
// spreadsheets are hand-edited and a malformed cell must not abort the
// import.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "listed", "0":
		return StatusListed
	case "in stock", "1":
		return StatusInStock
	case "sold", "2":
		return StatusSold
	default:
		return StatusListed
	}
}
