package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/coolcare/coolcare/internal/db"
	"github.com/coolcare/coolcare/internal/notify"
)

// CampaignHandler triggers SMS reminder campaigns.
type CampaignHandler struct {
	clientCollection db.ClientCollection
	dispatcher       *notify.Dispatcher
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(clientCollection db.ClientCollection, dispatcher *notify.Dispatcher) *CampaignHandler {
	return &CampaignHandler{
		clientCollection: clientCollection,
		dispatcher:       dispatcher,
	}
}

// Run sends the reminder message to every client on record, one at a
// time, and reports the per-recipient outcomes.
func (h *CampaignHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	recipients, err := h.clientCollection.ListCampaignRecipients(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list campaign recipients")
		http.Error(w, "Failed to list recipients", http.StatusInternalServerError)
		return
	}

	result := h.dispatcher.Run(r.Context(), recipients)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
