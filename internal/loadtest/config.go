// Package loadtest drives a running menu service with concurrent create, read and
// delete traffic and checks the results are consistent.
package loadtest

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL string        // Base URL of the service
	Items   int           // Number of menu items to create
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	OwnerID string        // userId attached to created items; generated when empty
	Keep    bool          // Skip the delete phase
	Verbose bool          // Log every failed request
}

// MenuInput is the POST /api/menu payload.
type MenuInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	UserID      string  `json:"userId,omitempty"`
}

// MenuItem is the server representation of a menu item.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageID     string  `json:"imageId"`
	UserID      *string `json:"userId"`
}

// Stats holds run statistics.
type Stats struct {
	ItemsGenerated int
	Created        int
	CreateFailed   int
	Listed         int
	Deleted        int
	DeleteFailed   int
	Forbidden      int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
