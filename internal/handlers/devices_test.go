package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/coolcare/coolcare/internal/models"
)

// MockServiceRecordCollection is a mock implementation of ServiceRecordCollection
type MockServiceRecordCollection struct {
	mock.Mock
}

func (m *MockServiceRecordCollection) InsertServiceRecord(ctx context.Context, record models.ServiceRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *MockServiceRecordCollection) ListServiceRecordsByDevice(ctx context.Context, deviceID string) ([]models.ServiceRecord, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRecord), args.Error(1)
}

func TestDeviceHandler_Devices(t *testing.T) {
	t.Run("create device", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		mockDevices.On("InsertDevice", mock.Anything, mock.AnythingOfType("models.Device")).Return("abc123", nil)

		deviceReq := map[string]string{
			"name":          "Lobby split",
			"client_name":   "Acme Corp",
			"location_name": "HQ",
			"brand":         "Daikin",
			"unit_type":     "split",
			"horsepower":    "1.5HP",
		}
		body, err := json.Marshal(deviceReq)
		if err != nil {
			t.Fatalf("Failed to marshal device request: %v", err)
		}
		req := httptest.NewRequest("POST", "/api/devices", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Devices(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]string
		err = json.Unmarshal(w.Body.Bytes(), &response)
		if err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Equal(t, "abc123", response["id"])

		mockDevices.AssertExpectations(t)
	})

	t.Run("create device with missing fields", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		body, err := json.Marshal(map[string]string{"name": "Lobby split"})
		if err != nil {
			t.Fatalf("Failed to marshal device request: %v", err)
		}
		req := httptest.NewRequest("POST", "/api/devices", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Devices(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockDevices.AssertNotCalled(t, "InsertDevice", mock.Anything, mock.Anything)
	})

	t.Run("list devices filtered by client", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		devices := []models.Device{
			cleanedDevice("Lobby split", "Acme Corp", "HQ", 30),
		}
		mockDevices.On("FindDevices", mock.Anything, bson.M{"client_name": "Acme Corp"}).Return(devices, nil)

		req := httptest.NewRequest("GET", "/api/devices?client=Acme+Corp", nil)
		w := httptest.NewRecorder()

		handler.Devices(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response []models.Device
		err := json.Unmarshal(w.Body.Bytes(), &response)
		if err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Len(t, response, 1)
		assert.Equal(t, "Lobby split", response[0].Name)

		mockDevices.AssertExpectations(t)
	})

	t.Run("method not allowed", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		req := httptest.NewRequest("DELETE", "/api/devices", nil)
		w := httptest.NewRecorder()

		handler.Devices(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestDeviceHandler_RecordService(t *testing.T) {
	t.Run("cleaning", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		performedAt := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
		mockDevices.On("MarkCleaned", mock.Anything, "abc123", performedAt).Return(nil)
		mockRecords.On("InsertServiceRecord", mock.Anything, mock.AnythingOfType("models.ServiceRecord")).Return("rec1", nil)

		serviceReq := map[string]interface{}{
			"device_id":    "abc123",
			"service_type": "cleaning",
			"performed_at": performedAt,
		}
		body, err := json.Marshal(serviceReq)
		if err != nil {
			t.Fatalf("Failed to marshal service request: %v", err)
		}
		req := httptest.NewRequest("POST", "/api/devices/service", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.RecordService(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockDevices.AssertExpectations(t)
	})

	t.Run("repair", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		mockDevices.On("MarkRepaired", mock.Anything, "abc123", mock.AnythingOfType("time.Time")).Return(nil)
		mockRecords.On("InsertServiceRecord", mock.Anything, mock.AnythingOfType("models.ServiceRecord")).Return("rec1", nil)

		serviceReq := map[string]string{
			"device_id":    "abc123",
			"service_type": "repair",
		}
		body, err := json.Marshal(serviceReq)
		if err != nil {
			t.Fatalf("Failed to marshal service request: %v", err)
		}
		req := httptest.NewRequest("POST", "/api/devices/service", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.RecordService(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockDevices.AssertExpectations(t)
	})

	t.Run("unknown service type", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		serviceReq := map[string]string{
			"device_id":    "abc123",
			"service_type": "inspection",
		}
		body, err := json.Marshal(serviceReq)
		if err != nil {
			t.Fatalf("Failed to marshal service request: %v", err)
		}
		req := httptest.NewRequest("POST", "/api/devices/service", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.RecordService(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockDevices.AssertNotCalled(t, "MarkCleaned", mock.Anything, mock.Anything, mock.Anything)
		mockDevices.AssertNotCalled(t, "MarkRepaired", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing device id", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		body, err := json.Marshal(map[string]string{"service_type": "cleaning"})
		if err != nil {
			t.Fatalf("Failed to marshal service request: %v", err)
		}
		req := httptest.NewRequest("POST", "/api/devices/service", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.RecordService(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeviceHandler_ServiceHistory(t *testing.T) {
	t.Run("lists visits for a device", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		records := []models.ServiceRecord{
			{DeviceID: "abc123", ServiceType: "repair", PerformedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
			{DeviceID: "abc123", ServiceType: "cleaning", PerformedAt: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)},
		}
		mockRecords.On("ListServiceRecordsByDevice", mock.Anything, "abc123").Return(records, nil)

		req := httptest.NewRequest("GET", "/api/devices/history?id=abc123", nil)
		w := httptest.NewRecorder()

		handler.ServiceHistory(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response []models.ServiceRecord
		err := json.Unmarshal(w.Body.Bytes(), &response)
		if err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		assert.Len(t, response, 2)
		assert.Equal(t, "repair", response[0].ServiceType)

		mockRecords.AssertExpectations(t)
	})

	t.Run("missing id", func(t *testing.T) {
		mockDevices := new(MockDeviceCollection)
		mockRecords := new(MockServiceRecordCollection)
		handler := NewDeviceHandler(mockDevices, mockRecords)

		req := httptest.NewRequest("GET", "/api/devices/history", nil)
		w := httptest.NewRecorder()

		handler.ServiceHistory(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRecords.AssertNotCalled(t, "ListServiceRecordsByDevice", mock.Anything, mock.Anything)
	})
}
