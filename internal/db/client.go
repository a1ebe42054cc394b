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

// MongoClientCollection implements ClientCollection for MongoDB.
type MongoClientCollection struct {
	Collection *mongo.Collection
}

// InsertClient inserts a client record and returns its hex ID.
func (c *MongoClientCollection) InsertClient(ctx context.Context, client models.Client) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	if _, err := c.Collection.InsertOne(ctx, client); err != nil {
		return "", err
	}
	return client.ID.Hex(), nil
}

// FindClientByID finds a client by its ID.
func (c *MongoClientCollection) FindClientByID(ctx context.Context, id string) (*models.Client, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %w", err)
	}

	var client models.Client
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("client not found")
		}
		return nil, err
	}
	return &client, nil
}

// ListClients returns all client records.
func (c *MongoClientCollection) ListClients(ctx context.Context) ([]models.Client, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := make([]models.Client, 0)
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// ListCampaignRecipients projects every client into its campaign view.
// Eligibility is not filtered here; the dispatcher records ineligible
// recipients so campaign reports cover the whole client base.
func (c *MongoClientCollection) ListCampaignRecipients(ctx context.Context) ([]models.Recipient, error) {
	clients, err := c.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	recipients := make([]models.Recipient, 0, len(clients))
	for i := range clients {
		recipients = append(recipients, clients[i].Recipient())
	}
	return recipients, nil
}
