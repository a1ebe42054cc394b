package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coolcare/coolcare/internal/models"
)

// MongoDeviceCollection implements DeviceCollection for MongoDB. Due
// dates are never stored; callers fetch raw device records and derive
// the schedule in application code.
type MongoDeviceCollection struct {
	Collection *mongo.Collection
}

// InsertDevice inserts a device record and returns its hex ID.
func (c *MongoDeviceCollection) InsertDevice(ctx context.Context, device models.Device) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	device.ID = primitive.NewObjectID()
	device.CreatedAt = time.Now()
	device.UpdatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, device); err != nil {
		return "", err
	}
	return device.ID.Hex(), nil
}

// FindDevices queries device records matching the filter.
func (c *MongoDeviceCollection) FindDevices(ctx context.Context, filter bson.M) ([]models.Device, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	devices := make([]models.Device, 0)
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// FindDeviceByID finds a device by its ID.
func (c *MongoDeviceCollection) FindDeviceByID(ctx context.Context, id string) (*models.Device, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid device ID: %w", err)
	}

	var device models.Device
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("device not found")
		}
		return nil, err
	}
	return &device, nil
}

// ListWithCleaningHistory returns every device that has been cleaned at
// least once. Devices without history have no derivable schedule, so
// the schedule views never need them.
func (c *MongoDeviceCollection) ListWithCleaningHistory(ctx context.Context) ([]models.Device, error) {
	return c.FindDevices(ctx, bson.M{"last_cleaning_date": bson.M{"$ne": nil}})
}

// MarkCleaned records a completed cleaning, which resets the service
// cycle and clears any repair flag.
func (c *MongoDeviceCollection) MarkCleaned(ctx context.Context, id string, performedAt time.Time) error {
	return c.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"last_cleaning_date": performedAt,
			"updated_at":         time.Now(),
		},
		"$unset": bson.M{"last_repair_date": ""},
	})
}

// MarkRepaired records a completed repair.
func (c *MongoDeviceCollection) MarkRepaired(ctx context.Context, id string, performedAt time.Time) error {
	return c.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"last_repair_date": performedAt,
			"updated_at":       time.Now(),
		},
	})
}

// DeleteDevice deletes a device by its ID.
func (c *MongoDeviceCollection) DeleteDevice(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid device ID: %w", err)
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("device not found")
	}
	return nil
}

func (c *MongoDeviceCollection) updateByID(ctx context.Context, id string, update bson.M) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid device ID: %w", err)
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("device not found")
	}
	return nil
}
