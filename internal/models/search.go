package models

import (
	"time"
)

// Departure time-of-day buckets, fixed wall-clock windows anchored to the
// search date
const (
	BucketMorning   = "morning"   // 06:00 - 11:59
	BucketAfternoon = "afternoon" // 12:00 - 17:59
	BucketEvening   = "evening"   // 18:00 - 20:59
	BucketNight     = "night"     // 21:00 - 23:59
)

// TripSearchFilter is a set of independently optional predicates combined
// with AND. Unset fields impose no constraint.
type TripSearchFilter struct {
	Origin      string   `form:"origin"`         // case-insensitive substring of route origin
	Destination string   `form:"destination"`    // case-insensitive substring of route destination
	Date        string   `form:"date"`           // exact calendar day, YYYY-MM-DD
	Passengers  *int     `form:"passengers"`     // minimum available seats
	BusType     string   `form:"bus_type"`       // case-insensitive exact match
	TimeOfDay   string   `form:"departure_time"` // morning | afternoon | evening | night
	MinPrice    *float64 `form:"min_price"`
	MaxPrice    *float64 `form:"max_price"`
	OperatorID  string   `form:"operator_id"`

	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// TripSummary is the read-only view of one trip returned by search and
// trip detail, with display-oriented sub-views
type TripSummary struct {
	TripID       string              `json:"trip_id"`
	Status       string              `json:"status"`
	Route        RouteSummary        `json:"route"`
	Operator     OperatorSummary     `json:"operator"`
	Bus          BusSummary          `json:"bus"`
	Schedule     ScheduleSummary     `json:"schedule"`
	Pricing      PricingSummary      `json:"pricing"`
	Availability AvailabilitySummary `json:"availability"`
}

// RouteSummary is the route sub-view of a trip summary
type RouteSummary struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DurationMinutes int    `json:"duration_minutes"`
}

// OperatorSummary is the operator sub-view of a trip summary
type OperatorSummary struct {
	Name string `json:"name"`
}

// BusSummary is the bus sub-view of a trip summary
type BusSummary struct {
	Model   string `json:"model"`
	BusType string `json:"bus_type"`
}

// ScheduleSummary is the schedule sub-view of a trip summary
type ScheduleSummary struct {
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

// PricingSummary is the pricing sub-view of a trip summary
type PricingSummary struct {
	BasePrice float64 `json:"base_price"`
}

// AvailabilitySummary is the availability sub-view of a trip summary
type AvailabilitySummary struct {
	TotalSeats     int `json:"total_seats"`
	AvailableSeats int `json:"available_seats"`
}

// SearchResult is one page of trip summaries plus pagination totals
type SearchResult struct {
	Items      []TripSummary `json:"items"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalCount int           `json:"total_count"`
	TotalPages int           `json:"total_pages"`
}
