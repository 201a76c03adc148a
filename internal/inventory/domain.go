package inventory

import (
	"errors"
	"time"
)

// Item is a stocked product belonging to a tenant.
type Item struct {
	ID           int64
	TenantID     int64
	CategoryID   int64
	SKU          string
	Name         string
	Quantity     int64
	ReorderLevel int64
	PriceCents   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Adjustment records a manual stock change.
type Adjustment struct {
	ItemID int64
	Delta  int64
	Reason string
	Actor  int64
}

var (
	// ErrInvalidDelta indicates a zero stock adjustment.
	ErrInvalidDelta = errors.New("inventory: adjustment delta must be non-zero")
	// ErrNegativeStock indicates an adjustment would drive stock below zero.
	ErrNegativeStock = errors.New("inventory: stock cannot go negative")
)
