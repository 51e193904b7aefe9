/**
 * @description
 * This file defines the vendor domain models used by the map radius search.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vendor represents a service vendor (plumber, electrician, cleaner) that can
// appear on the map view.
type Vendor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// NearbyVendor is a Vendor annotated with its distance from the query point.
type NearbyVendor struct {
	Vendor
	DistanceKm float64 `json:"distance_km"`
}
