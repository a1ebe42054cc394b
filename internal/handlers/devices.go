package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coolcare/coolcare/internal/db"
	"github.com/coolcare/coolcare/internal/models"
)

// DeviceHandler handles device inventory requests.
type DeviceHandler struct {
	deviceCollection db.DeviceCollection
	recordCollection db.ServiceRecordCollection
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(deviceCollection db.DeviceCollection, recordCollection db.ServiceRecordCollection) *DeviceHandler {
	return &DeviceHandler{
		deviceCollection: deviceCollection,
		recordCollection: recordCollection,
	}
}

// Devices dispatches on method: POST creates a unit, GET lists them.
func (h *DeviceHandler) Devices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createDevice(w, r)
	case http.MethodGet:
		h.listDevices(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DeviceHandler) createDevice(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var deviceReq struct {
		Name             string     `json:"name"`
		ClientID         string     `json:"client_id"`
		ClientName       string     `json:"client_name"`
		LocationName     string     `json:"location_name"`
		Brand            string     `json:"brand"`
		UnitType         string     `json:"unit_type"`
		Horsepower       string     `json:"horsepower"`
		LastCleaningDate *time.Time `json:"last_cleaning_date"`
	}

	if err := json.Unmarshal(body, &deviceReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if deviceReq.Name == "" || deviceReq.ClientName == "" || deviceReq.LocationName == "" {
		http.Error(w, "Name, client name and location name are required", http.StatusBadRequest)
		return
	}

	device := models.Device{
		ID:               primitive.NewObjectID(),
		Name:             deviceReq.Name,
		ClientID:         deviceReq.ClientID,
		ClientName:       deviceReq.ClientName,
		LocationName:     deviceReq.LocationName,
		Brand:            deviceReq.Brand,
		UnitType:         deviceReq.UnitType,
		Horsepower:       deviceReq.Horsepower,
		LastCleaningDate: deviceReq.LastCleaningDate,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	id, err := h.deviceCollection.InsertDevice(r.Context(), device)
	if err != nil {
		log.WithError(err).Error("Failed to insert device")
		http.Error(w, "Failed to create device", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (h *DeviceHandler) listDevices(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if client := r.URL.Query().Get("client"); client != "" {
		filter["client_name"] = client
	}

	devices, err := h.deviceCollection.FindDevices(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("Failed to list devices")
		http.Error(w, "Failed to list devices", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(devices)
}

// RecordService records a completed cleaning or repair visit. A cleaning
// restarts every interval cycle and clears any repair flag.
func (h *DeviceHandler) RecordService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var serviceReq struct {
		DeviceID    string     `json:"device_id"`
		ServiceType string     `json:"service_type"`
		PerformedAt *time.Time `json:"performed_at"`
		Technician  string     `json:"technician"`
		Notes       string     `json:"notes"`
	}

	if err := json.Unmarshal(body, &serviceReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if serviceReq.DeviceID == "" {
		http.Error(w, "Device ID is required", http.StatusBadRequest)
		return
	}

	performedAt := time.Now().UTC()
	if serviceReq.PerformedAt != nil {
		performedAt = *serviceReq.PerformedAt
	}

	switch serviceReq.ServiceType {
	case "cleaning":
		err = h.deviceCollection.MarkCleaned(r.Context(), serviceReq.DeviceID, performedAt)
	case "repair":
		err = h.deviceCollection.MarkRepaired(r.Context(), serviceReq.DeviceID, performedAt)
	default:
		http.Error(w, "Service type must be cleaning or repair", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.WithError(err).WithField("device_id", serviceReq.DeviceID).Error("Failed to record service")
		http.Error(w, "Failed to record service", http.StatusInternalServerError)
		return
	}

	// History is best-effort; the schedule already moved.
	if h.recordCollection != nil {
		record := models.ServiceRecord{
			DeviceID:    serviceReq.DeviceID,
			ServiceType: serviceReq.ServiceType,
			PerformedAt: performedAt,
			Technician:  serviceReq.Technician,
			Notes:       serviceReq.Notes,
		}
		if _, err := h.recordCollection.InsertServiceRecord(r.Context(), record); err != nil {
			log.WithError(err).Warn("Failed to append service history")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Service recorded successfully"})
}

// ServiceHistory lists a device's recorded visits, newest first.
func (h *DeviceHandler) ServiceHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Device ID is required", http.StatusBadRequest)
		return
	}

	records, err := h.recordCollection.ListServiceRecordsByDevice(r.Context(), id)
	if err != nil {
		log.WithError(err).WithField("device_id", id).Error("Failed to list service history")
		http.Error(w, "Failed to list service history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
