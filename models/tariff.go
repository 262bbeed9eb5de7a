package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tariff is the subscription plan record managed through the master panel.
// Pricing and marketing fields live here; what a plan actually unlocks is the
// static capability table in internal/tariff, keyed by PlanID.
type Tariff struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID       string             `bson:"plan_id" json:"plan_id" binding:"required,min=2,max=50"`
	Name         string             `bson:"name" json:"name" binding:"required"`
	Price        float64            `bson:"price" json:"price"`
	RenewalPrice float64            `bson:"renewal_price" json:"renewal_price"`
	SetupFee     float64            `bson:"setup_fee" json:"setup_fee"`
	Currency     string             `bson:"currency,omitempty" json:"currency,omitempty"`
	Features     []string           `bson:"features" json:"features"`
	Popular      bool               `bson:"popular" json:"popular"`
	Active       bool               `bson:"active" json:"active"`
	SortOrder    int                `bson:"sort_order" json:"sort_order"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type UpdateTariffRequest struct {
	Name         *string   `json:"name,omitempty"`
	Price        *float64  `json:"price,omitempty"`
	RenewalPrice *float64  `json:"renewal_price,omitempty"`
	SetupFee     *float64  `json:"setup_fee,omitempty"`
	Currency     *string   `json:"currency,omitempty"`
	Features     *[]string `json:"features,omitempty"`
	Popular      *bool     `json:"popular,omitempty"`
	Active       *bool     `json:"active,omitempty"`
	SortOrder    *int      `json:"sort_order,omitempty"`
}
