package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device represents one air-conditioning unit under a maintenance contract.
// Client and location names are denormalized onto the record so schedule
// views can group without extra lookups.
type Device struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	ClientID         string             `bson:"client_id" json:"client_id"`
	ClientName       string             `bson:"client_name" json:"client_name"`
	LocationName     string             `bson:"location_name" json:"location_name"`
	Brand            string             `bson:"brand,omitempty" json:"brand,omitempty"`
	UnitType         string             `bson:"unit_type,omitempty" json:"unit_type,omitempty"` // "split", "window", "central"
	Horsepower       string             `bson:"horsepower,omitempty" json:"horsepower,omitempty"`
	LastCleaningDate *time.Time         `bson:"last_cleaning_date,omitempty" json:"last_cleaning_date,omitempty"`
	LastRepairDate   *time.Time         `bson:"last_repair_date,omitempty" json:"last_repair_date,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
