package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceRecord is the audit log entry for one completed service visit.
// The device's own cleaning and repair dates drive the schedule; records
// exist for history and reporting only.
type ServiceRecord struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID    string             `json:"device_id" bson:"device_id"`
	ClientName  string             `json:"client_name,omitempty" bson:"client_name,omitempty"`
	ServiceType string             `json:"service_type" bson:"service_type"` // "cleaning" or "repair"
	PerformedAt time.Time          `json:"performed_at" bson:"performed_at"`
	Technician  string             `json:"technician,omitempty" bson:"technician,omitempty"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
