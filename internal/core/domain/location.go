package domain

import "time"

// Location is a visited catalog address, identified by its query parameters.
type Location struct {
	Query     QueryParameterSet
	VisitedAt time.Time
}

// Bookmark is a named, saved location.
type Bookmark struct {
	ID        string
	Name      string
	Query     QueryParameterSet
	CreatedAt time.Time
}
