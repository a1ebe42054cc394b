package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/coolcare/coolcare/internal/models"
)

// DeviceCollection defines the interface for device data operations.
type DeviceCollection interface {
	InsertDevice(ctx context.Context, device models.Device) (string, error)
	FindDevices(ctx context.Context, filter bson.M) ([]models.Device, error)
	FindDeviceByID(ctx context.Context, id string) (*models.Device, error)
	ListWithCleaningHistory(ctx context.Context) ([]models.Device, error)
	MarkCleaned(ctx context.Context, id string, performedAt time.Time) error
	MarkRepaired(ctx context.Context, id string, performedAt time.Time) error
	DeleteDevice(ctx context.Context, id string) error
}

// ClientCollection defines the interface for client data operations.
type ClientCollection interface {
	InsertClient(ctx context.Context, client models.Client) (string, error)
	FindClientByID(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListCampaignRecipients(ctx context.Context) ([]models.Recipient, error)
}
