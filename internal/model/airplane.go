package model

import "time"

// Airplane represents an airframe and its declared cabin capacity as
// stored in the `airplanes` table.  The capacity totals drive the
// generated seat template: business seats are laid out four per row
// (columns A–D) and economy seats six per row (columns A–F), so
// TotalBusiness must be a multiple of 4 and TotalEconomy a multiple
// of 6.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – unique display name (e.g. "VN-A889").
//  Model         – manufacturer model string (e.g. "Airbus A321").
//  TotalBusiness – number of business seats; non-negative multiple of 4.
//  TotalEconomy  – number of economy seats; non-negative multiple of 6.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Airplane struct {
	ID            uint64    `json:"id"`             // airplanes.id
	Name          string    `json:"name"`           // airplanes.name
	Model         string    `json:"model"`          // airplanes.model
	TotalBusiness uint32    `json:"total_business"` // airplanes.total_business
	TotalEconomy  uint32    `json:"total_economy"`  // airplanes.total_economy
	CreatedAt     time.Time `json:"created_at"`     // airplanes.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // airplanes.updated_at
}
