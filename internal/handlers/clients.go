package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coolcare/coolcare/internal/db"
	"github.com/coolcare/coolcare/internal/models"
)

// ClientHandler handles client roster requests.
type ClientHandler struct {
	clientCollection db.ClientCollection
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientCollection db.ClientCollection) *ClientHandler {
	return &ClientHandler{
		clientCollection: clientCollection,
	}
}

// Clients dispatches on method: POST registers a client, GET lists them.
func (h *ClientHandler) Clients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createClient(w, r)
	case http.MethodGet:
		h.listClients(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ClientHandler) createClient(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var clientReq struct {
		Name        string `json:"name"`
		Mobile      string `json:"mobile"`
		ProfileSlug string `json:"profile_slug"`
		Notes       string `json:"notes"`
	}

	if err := json.Unmarshal(body, &clientReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if clientReq.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	client := models.Client{
		ID:          primitive.NewObjectID(),
		Name:        clientReq.Name,
		Mobile:      clientReq.Mobile,
		ProfileSlug: clientReq.ProfileSlug,
		Notes:       clientReq.Notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	id, err := h.clientCollection.InsertClient(r.Context(), client)
	if err != nil {
		log.WithError(err).Error("Failed to insert client")
		http.Error(w, "Failed to create client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (h *ClientHandler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientCollection.ListClients(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list clients")
		http.Error(w, "Failed to list clients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}
