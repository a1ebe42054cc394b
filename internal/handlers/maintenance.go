package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/coolcare/coolcare/internal/db"
	"github.com/coolcare/coolcare/internal/models"
	"github.com/coolcare/coolcare/internal/schedule"
)

// DefaultDueSoonWindowDays bounds the due-soon view when the caller
// does not pass a window.
const DefaultDueSoonWindowDays = 30

// MaintenanceHandler serves the cleaning schedule views.
type MaintenanceHandler struct {
	deviceCollection db.DeviceCollection
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(deviceCollection db.DeviceCollection) *MaintenanceHandler {
	return &MaintenanceHandler{
		deviceCollection: deviceCollection,
	}
}

// scheduleResponse is the common shape for the due-soon and overdue views.
type scheduleResponse struct {
	GeneratedAt time.Time                    `json:"generated_at"`
	WindowDays  int                          `json:"window_days,omitempty"`
	GroupCount  int                          `json:"group_count"`
	DeviceCount int                          `json:"device_count"`
	Groups      []models.ClientLocationGroup `json:"groups"`
}

// DueSoon returns upcoming cleaning obligations grouped by client and
// location, soonest group first.
func (h *MaintenanceHandler) DueSoon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	windowDays := DefaultDueSoonWindowDays
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid window", http.StatusBadRequest)
			return
		}
		windowDays = parsed
	}

	devices, err := h.deviceCollection.ListWithCleaningHistory(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list devices for due-soon view")
		http.Error(w, "Failed to list devices", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	obligations := schedule.BuildDueSoon(devices, now, windowDays)
	groups := schedule.GroupByClientLocation(obligations, now)
	schedule.SortGroupsByEarliestDue(groups)

	writeSchedule(w, scheduleResponse{
		GeneratedAt: now,
		WindowDays:  windowDays,
		GroupCount:  len(groups),
		DeviceCount: memberCount(groups),
		Groups:      groups,
	})
}

// Overdue returns the resolved overdue schedule. Each device appears at
// most once, carrying its most urgent missed interval.
func (h *MaintenanceHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	devices, err := h.deviceCollection.ListWithCleaningHistory(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list devices for overdue view")
		http.Error(w, "Failed to list devices", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	obligations := schedule.BuildOverdue(devices, now)
	resolved := schedule.ResolveOverdue(obligations, now)
	groups := schedule.GroupByClientLocation(resolved, now)

	writeSchedule(w, scheduleResponse{
		GeneratedAt: now,
		GroupCount:  len(groups),
		DeviceCount: memberCount(groups),
		Groups:      groups,
	})
}

// deviceStatusResponse reports one unit's classification and due dates.
type deviceStatusResponse struct {
	DeviceID   string                     `json:"device_id"`
	DeviceName string                     `json:"device_name"`
	State      models.ClassificationState `json:"state"`
	NextDue    *time.Time                 `json:"next_due,omitempty"`
}

// DeviceStatus classifies a single unit by its service history.
func (h *MaintenanceHandler) DeviceStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Device ID is required", http.StatusBadRequest)
		return
	}

	device, err := h.deviceCollection.FindDeviceByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	now := time.Now().UTC()
	response := deviceStatusResponse{
		DeviceID:   device.ID.Hex(),
		DeviceName: device.Name,
		State:      schedule.Classify(*device, now),
		NextDue:    schedule.ComputeDueDates(device.LastCleaningDate).Nearest(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func writeSchedule(w http.ResponseWriter, response scheduleResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func memberCount(groups []models.ClientLocationGroup) int {
	total := 0
	for _, group := range groups {
		total += group.Count
	}
	return total
}
