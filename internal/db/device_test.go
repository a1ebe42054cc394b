package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolcare/coolcare/internal/models"
)

func TestMongoDeviceCollection_NilCollection(t *testing.T) {
	coll := &MongoDeviceCollection{Collection: nil}

	_, err := coll.InsertDevice(context.Background(), models.Device{})
	assert.Error(t, err)

	_, err = coll.ListWithCleaningHistory(context.Background())
	assert.Error(t, err)

	err = coll.MarkCleaned(context.Background(), "507f1f77bcf86cd799439011", time.Now())
	assert.Error(t, err)
}

func setupDeviceCollection(t *testing.T) *MongoDeviceCollection {
	t.Helper()
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	collection := client.Database("test_coolcare").Collection("devices")
	collection.Drop(context.Background())
	return &MongoDeviceCollection{Collection: collection}
}

func TestMongoDeviceCollection_InsertAndFind(t *testing.T) {
	coll := setupDeviceCollection(t)

	id, err := coll.InsertDevice(context.Background(), models.Device{
		Name:         "Living room split",
		ClientID:     "c1",
		ClientName:   "Amal Hassan",
		LocationName: "Home",
		Brand:        "Carrier",
		UnitType:     "split",
		Horsepower:   "1.5",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	device, err := coll.FindDeviceByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "Living room split", device.Name)
	assert.Nil(t, device.LastCleaningDate)
	assert.NotZero(t, device.CreatedAt)

	_, err = coll.FindDeviceByID(context.Background(), "invalid-id")
	assert.Error(t, err)
}

func TestMongoDeviceCollection_ListWithCleaningHistory(t *testing.T) {
	coll := setupDeviceCollection(t)

	cleaned := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	_, err := coll.InsertDevice(context.Background(), models.Device{
		Name:             "serviced",
		LastCleaningDate: &cleaned,
	})
	require.NoError(t, err)
	_, err = coll.InsertDevice(context.Background(), models.Device{Name: "never serviced"})
	require.NoError(t, err)

	devices, err := coll.ListWithCleaningHistory(context.Background())
	assert.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "serviced", devices[0].Name)
}

func TestMongoDeviceCollection_MarkCleanedClearsRepair(t *testing.T) {
	coll := setupDeviceCollection(t)

	repaired := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	id, err := coll.InsertDevice(context.Background(), models.Device{
		Name:           "repaired unit",
		LastRepairDate: &repaired,
	})
	require.NoError(t, err)

	performedAt := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	err = coll.MarkCleaned(context.Background(), id, performedAt)
	assert.NoError(t, err)

	device, err := coll.FindDeviceByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, device.LastCleaningDate)
	assert.True(t, device.LastCleaningDate.Equal(performedAt))
	assert.Nil(t, device.LastRepairDate)
}

func TestMongoDeviceCollection_MarkRepaired(t *testing.T) {
	coll := setupDeviceCollection(t)

	id, err := coll.InsertDevice(context.Background(), models.Device{Name: "unit"})
	require.NoError(t, err)

	performedAt := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)
	err = coll.MarkRepaired(context.Background(), id, performedAt)
	assert.NoError(t, err)

	device, err := coll.FindDeviceByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, device.LastRepairDate)
	assert.True(t, device.LastRepairDate.Equal(performedAt))

	// unknown device
	err = coll.MarkRepaired(context.Background(), "507f1f77bcf86cd799439011", performedAt)
	assert.Error(t, err)
}

func TestMongoDeviceCollection_DeleteDevice(t *testing.T) {
	coll := setupDeviceCollection(t)

	id, err := coll.InsertDevice(context.Background(), models.Device{Name: "unit"})
	require.NoError(t, err)

	err = coll.DeleteDevice(context.Background(), id)
	assert.NoError(t, err)

	err = coll.DeleteDevice(context.Background(), id)
	assert.Error(t, err)
}
