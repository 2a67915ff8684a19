// Package domain defines the core business types for HomeScout.
package domain

import (
	"time"
)

// PropertyType represents the category of a residential property.
type PropertyType string

// Property type constants.
const (
	PropertySingleFamily PropertyType = "single_family"
	PropertyCondo        PropertyType = "condo"
	PropertyTownhouse    PropertyType = "townhouse"
	PropertyMultiFamily  PropertyType = "multi_family"
	PropertyLand         PropertyType = "land"
	PropertyOther        PropertyType = "other"
)

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

// Listing status constants. Only active listings participate in matching.
const (
	StatusActive    ListingStatus = "active"
	StatusPending   ListingStatus = "pending"
	StatusSold      ListingStatus = "sold"
	StatusWithdrawn ListingStatus = "withdrawn"
)

// Listing represents a property listing owned by an agent.
// Bedrooms, Bathrooms, and Sqft are pointers because imported inventory
// can lack them; a missing value fails any criteria bound that needs it.
type Listing struct {
	ID      string `json:"id"       db:"id"`
	AgentID string `json:"agent_id" db:"agent_id"`
	Title   string `json:"title"    db:"title"`

	// Location
	Address string `json:"address" db:"address"`
	City    string `json:"city"    db:"city"`
	State   string `json:"state"   db:"state"`
	Zip     string `json:"zip"     db:"zip"`

	// Attributes
	Price        float64       `json:"price"               db:"price"`
	Bedrooms     *int          `json:"bedrooms,omitempty"  db:"bedrooms"`
	Bathrooms    *float64      `json:"bathrooms,omitempty" db:"bathrooms"`
	Sqft         *int          `json:"sqft,omitempty"      db:"sqft"`
	PropertyType PropertyType  `json:"property_type"       db:"property_type"`
	Status       ListingStatus `json:"status"              db:"status"`
	Features     []string      `json:"features"            db:"features"`
	PhotoURL     string        `json:"photo_url,omitempty" db:"photo_url"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the listing participates in matching.
func (l *Listing) IsActive() bool {
	return l.Status == StatusActive
}

// SavedSearch represents a buyer-authored filter specification that is
// evaluated repeatedly over the active inventory.
type SavedSearch struct {
	ID        string         `json:"id"                    db:"id"`
	BuyerID   string         `json:"buyer_id"              db:"buyer_id"`
	Name      string         `json:"name"                  db:"name"`
	Criteria  SearchCriteria `json:"criteria"              db:"criteria"`
	Enabled   bool           `json:"enabled"               db:"enabled"`
	LastRunAt *time.Time     `json:"last_run_at,omitempty" db:"last_run_at"`
	CreatedAt time.Time      `json:"created_at"            db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"            db:"updated_at"`
}

// Alert represents a notification-worthy batch of newly matching listings
// for one saved search. A listing ID appears in at most one alert across a
// saved search's lifetime; Notified never affects that dedup.
type Alert struct {
	ID            string     `json:"id"                    db:"id"`
	SavedSearchID string     `json:"saved_search_id"       db:"saved_search_id"`
	NewListingIDs []string   `json:"new_listing_ids"       db:"new_listing_ids"`
	Notified      bool       `json:"notified"              db:"notified"`
	NotifiedAt    *time.Time `json:"notified_at,omitempty" db:"notified_at"`
	CreatedAt     time.Time  `json:"created_at"            db:"created_at"`
}

// ViewerType classifies who generated a view event.
type ViewerType string

// Viewer type constants.
const (
	ViewerBuyer     ViewerType = "buyer"
	ViewerAgent     ViewerType = "agent"
	ViewerAnonymous ViewerType = "anonymous"
)

// ViewEvent is an append-only record of a single property page view.
// BuyerSessionID is nil for anonymous and agent views.
type ViewEvent struct {
	ID              string     `json:"id"                         db:"id"`
	ListingID       string     `json:"listing_id"                 db:"listing_id"`
	BuyerSessionID  *string    `json:"buyer_session_id,omitempty" db:"buyer_session_id"`
	ViewerType      ViewerType `json:"viewer_type"                db:"viewer_type"`
	ViewDuration    int        `json:"view_duration"              db:"view_duration"`
	ImagesViewed    []int      `json:"images_viewed"              db:"images_viewed"`
	VideosWatched   []int      `json:"videos_watched"             db:"videos_watched"`
	SectionsVisited []string   `json:"sections_visited"           db:"sections_visited"`
	Timestamp       time.Time  `json:"timestamp"                  db:"timestamp"`
}

// ViewSummary aggregates view events for a listing or a (buyer, listing)
// pair. It is derived on demand and never persisted. TotalTime is in
// seconds; AvgDuration is TotalTime / ViewCount (0 when there are no views).
type ViewSummary struct {
	ViewCount       int        `json:"view_count"`
	UniqueViewers   int        `json:"unique_viewers"`
	TotalTime       int        `json:"total_time"`
	AvgDuration     float64    `json:"avg_duration"`
	LastViewed      *time.Time `json:"last_viewed,omitempty"`
	AvgImagesViewed float64    `json:"avg_images_viewed"`
}

// JobRun records a single execution of a scheduled job.
type JobRun struct {
	ID          string     `json:"id"                     db:"id"`
	JobName     string     `json:"job_name"               db:"job_name"`
	StartedAt   time.Time  `json:"started_at"             db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Status      string     `json:"status"                 db:"status"`
	ErrorText   string     `json:"error_text,omitempty"   db:"error_text"`
}
