package db

import (
	"errors"
	"math"
)

// GeoQuery selects hashes whose GEO field lies within RadiusKm of (Lat, Lon).
// Limit caps returned entries; Total still counts every match.
type GeoQuery struct {
	IndexName    string
	Field        string
	Lat          float64
	Lon          float64
	RadiusKm     float64
	Offset       int
	Limit        int
	ReturnFields []string
}

// Validate checks the query before it reaches a driver.
func (q *GeoQuery) Validate() error {
	if q.IndexName == "" {
		return errors.New("index name is required")
	}
	if q.Field == "" {
		return errors.New("geo field is required")
	}
	if q.Lat < -90 || q.Lat > 90 || q.Lon < -180 || q.Lon > 180 {
		return errors.New("coordinates out of range")
	}
	if math.IsNaN(q.RadiusKm) || q.RadiusKm <= 0 {
		return errors.New("radius must be positive")
	}
	if q.Limit <= 0 {
		return errors.New("limit must be positive")
	}
	if q.Offset < 0 {
		return errors.New("offset must not be negative")
	}
	return nil
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hash hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
