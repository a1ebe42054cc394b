package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/coolcare/coolcare/internal/auth"
	"github.com/coolcare/coolcare/internal/db"
	"github.com/coolcare/coolcare/internal/handlers"
	"github.com/coolcare/coolcare/internal/ingest"
	"github.com/coolcare/coolcare/internal/middleware"
	"github.com/coolcare/coolcare/internal/notify"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// sendDelay reads the inter-SMS pause from the environment.
func sendDelay() time.Duration {
	raw := os.Getenv("SEND_DELAY")
	if raw == "" {
		return notify.DefaultSendDelay
	}
	delay, err := time.ParseDuration(raw)
	if err != nil || delay < 0 {
		log.WithField("send_delay", raw).Warn("Invalid SEND_DELAY, using default")
		return notify.DefaultSendDelay
	}
	return delay
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	database := client.Database(db.DatabaseName())
	deviceCollection := &db.MongoDeviceCollection{Collection: database.Collection("devices")}
	clientCollection := &db.MongoClientCollection{Collection: database.Collection("clients")}
	userCollection := &db.MongoUserCollection{Collection: database.Collection("users")}
	recordCollection := &db.MongoServiceRecordCollection{Collection: database.Collection("service_records")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	gateway := notify.NewHTTPGateway()
	dispatcher, err := notify.NewDispatcher(gateway, sendDelay(), os.Getenv("PROFILE_BASE_URL"))
	if err != nil {
		log.WithError(err).Fatal("Failed to create dispatcher")
	}

	authHandler := handlers.NewAuthHandler(authService, userCollection)
	deviceHandler := handlers.NewDeviceHandler(deviceCollection, recordCollection)
	clientHandler := handlers.NewClientHandler(clientCollection)
	maintenanceHandler := handlers.NewMaintenanceHandler(deviceCollection)
	campaignHandler := handlers.NewCampaignHandler(clientCollection, dispatcher)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	requireSchedule := authMiddleware.RequirePermission("view_schedule")
	requireDevices := authMiddleware.RequirePermission("view_devices")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)
	mux.Handle("/api/maintenance/due-soon", requireSchedule(http.HandlerFunc(maintenanceHandler.DueSoon)))
	mux.Handle("/api/maintenance/overdue", requireSchedule(http.HandlerFunc(maintenanceHandler.Overdue)))
	mux.Handle("/api/devices/status", requireDevices(http.HandlerFunc(maintenanceHandler.DeviceStatus)))
	mux.Handle("/api/devices", requireDevices(http.HandlerFunc(deviceHandler.Devices)))
	mux.Handle("/api/devices/history", requireDevices(http.HandlerFunc(deviceHandler.ServiceHistory)))
	mux.Handle("/api/clients",
		authMiddleware.RequirePermission("view_clients")(http.HandlerFunc(clientHandler.Clients)))
	mux.Handle("/api/devices/service",
		authMiddleware.RequirePermission("record_service")(http.HandlerFunc(deviceHandler.RecordService)))
	mux.Handle("/api/campaigns/run",
		authMiddleware.RequirePermission("run_campaign")(http.HandlerFunc(campaignHandler.Run)))

	handler := rateLimiter.RateLimit(100, 60)(authMiddleware.Authenticate(mux))

	// Field technicians report completed visits over MQTT when a
	// broker is configured.
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		subscriber, err := ingest.NewSubscriber(broker, "coolcare-api", deviceCollection)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		if err := subscriber.Start(); err != nil {
			log.WithError(err).Fatal("Failed to subscribe to service completions")
		}
		defer subscriber.Close()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
