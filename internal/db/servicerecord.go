package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coolcare/coolcare/internal/models"
)

// ServiceRecordCollection defines the interface for service history operations.
type ServiceRecordCollection interface {
	InsertServiceRecord(ctx context.Context, record models.ServiceRecord) (string, error)
	ListServiceRecordsByDevice(ctx context.Context, deviceID string) ([]models.ServiceRecord, error)
}

// MongoServiceRecordCollection implements ServiceRecordCollection for MongoDB.
type MongoServiceRecordCollection struct {
	Collection *mongo.Collection
}

// InsertServiceRecord appends a visit to the service history.
func (c *MongoServiceRecordCollection) InsertServiceRecord(ctx context.Context, record models.ServiceRecord) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, record); err != nil {
		return "", err
	}
	return record.ID.Hex(), nil
}

// ListServiceRecordsByDevice returns a device's visit history, newest first.
func (c *MongoServiceRecordCollection) ListServiceRecordsByDevice(ctx context.Context, deviceID string) ([]models.ServiceRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "performed_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"device_id": deviceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]models.ServiceRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
