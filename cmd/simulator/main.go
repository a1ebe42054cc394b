package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Client is the seed payload for one reminder recipient.
type Client struct {
	Name        string `json:"name"`
	Mobile      string `json:"mobile"`
	ProfileSlug string `json:"profile_slug"`
}

// Device is the seed payload for one air-conditioning unit.
type Device struct {
	Name             string     `json:"name"`
	ClientID         string     `json:"client_id"`
	ClientName       string     `json:"client_name"`
	LocationName     string     `json:"location_name"`
	Brand            string     `json:"brand"`
	UnitType         string     `json:"unit_type"`
	Horsepower       string     `json:"horsepower"`
	LastCleaningDate *time.Time `json:"last_cleaning_date,omitempty"`
}

// ServiceEvent mirrors the ingest topic payload.
type ServiceEvent struct {
	DeviceID    string    `json:"device_id"`
	ServiceType string    `json:"service_type"`
	PerformedAt time.Time `json:"performed_at"`
}

var clientNames = []string{
	"Sunrise Dental Clinic", "Harbour View Hotel", "Golden Wok Restaurant",
	"Northside Pharmacy", "Apex Fitness", "Bluewater Realty",
	"Crestline Accounting", "Pearl River Trading", "Evergreen Kindergarten",
	"Metro Print Shop", "Lakeside Cafe", "Summit Law Offices",
}

var locationNames = []string{
	"Ground Floor", "2nd Floor Office", "Server Room", "Reception",
	"Main Hall", "Kitchen", "Back Office", "Conference Room",
	"Storage Area", "Showroom",
}

var brands = []string{"Daikin", "Mitsubishi", "Panasonic", "Carrier", "LG", "Gree", "Midea"}

var unitTypes = []string{"split", "window", "central"}

var horsepowers = []string{"1.0HP", "1.5HP", "2.0HP", "2.5HP", "3.0HP"}

func randomMobile() string {
	return fmt.Sprintf("+1555%07d", rand.Intn(10000000))
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// randomCleaningDate spreads seeded units across the schedule: some
// fresh, some mid-cycle, some long overdue, and some never serviced.
func randomCleaningDate() *time.Time {
	if rand.Intn(10) == 0 {
		return nil // never serviced
	}
	daysAgo := rand.Intn(300)
	d := time.Now().UTC().AddDate(0, 0, -daysAgo)
	return &d
}

var authToken string

func authorizedPost(url string, contentType string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func postForID(url string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := authorizedPost(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("creation failed with status: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	id, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid ID in response")
	}
	return id, nil
}

func createClient(apiURL string, name string) (Client, string, error) {
	client := Client{
		Name:        name,
		Mobile:      randomMobile(),
		ProfileSlug: slugify(name),
	}
	// A few seeded clients are missing contact details so campaign
	// runs exercise the ineligible path.
	if rand.Intn(8) == 0 {
		client.Mobile = ""
	}

	id, err := postForID(apiURL+"/clients", client)
	if err != nil {
		return Client{}, "", fmt.Errorf("failed to create client: %w", err)
	}

	log.WithFields(log.Fields{
		"client_id": id,
		"name":      name,
	}).Info("Created client")

	return client, id, nil
}

func randomDevice(clientID, clientName string) Device {
	brand := brands[rand.Intn(len(brands))]
	unitType := unitTypes[rand.Intn(len(unitTypes))]
	return Device{
		Name:             fmt.Sprintf("%s %s unit", brand, unitType),
		ClientID:         clientID,
		ClientName:       clientName,
		LocationName:     locationNames[rand.Intn(len(locationNames))],
		Brand:            brand,
		UnitType:         unitType,
		Horsepower:       horsepowers[rand.Intn(len(horsepowers))],
		LastCleaningDate: randomCleaningDate(),
	}
}

func createDevice(apiURL string, device Device) (string, error) {
	id, err := postForID(apiURL+"/devices", device)
	if err != nil {
		return "", fmt.Errorf("failed to create device: %w", err)
	}

	log.WithFields(log.Fields{
		"device_id": id,
		"client":    device.ClientName,
		"location":  device.LocationName,
		"brand":     device.Brand,
	}).Info("Created device")

	return id, nil
}

func connectBroker(broker string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID("coolcare-simulator")
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

func randomServiceEvent(deviceIDs []string) ServiceEvent {
	serviceType := "cleaning"
	// Roughly one visit in five is a repair callout.
	if rand.Intn(5) == 0 {
		serviceType = "repair"
	}
	return ServiceEvent{
		DeviceID:    deviceIDs[rand.Intn(len(deviceIDs))],
		ServiceType: serviceType,
		PerformedAt: time.Now().UTC(),
	}
}

func publishServiceEvent(client mqtt.Client, topic string, event ServiceEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("Failed to marshal service event")
		return
	}
	token := client.Publish(topic, 1, false, data)
	token.Wait()
	if token.Error() != nil {
		log.WithError(token.Error()).Error("Failed to publish service event")
		return
	}
	log.WithFields(log.Fields{
		"device_id":    event.DeviceID,
		"service_type": event.ServiceType,
	}).Info("Published service event")
}

func main() {
	// Optional JWT for protected API
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	clientCount := 8
	if val := os.Getenv("CLIENT_COUNT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			clientCount = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	interval := 10 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"client_count": clientCount,
		"api_url":      apiURL,
		"broker":       broker,
		"interval":     interval,
	}).Info("Starting maintenance simulation")

	// Seed clients and their units through the API
	deviceIDs := make([]string, 0, clientCount*3)
	for i := 0; i < clientCount; i++ {
		name := clientNames[i%len(clientNames)]
		client, clientID, err := createClient(apiURL, name)
		if err != nil {
			log.WithError(err).Error("Failed to create client")
			continue
		}

		units := 1 + rand.Intn(4)
		for j := 0; j < units; j++ {
			deviceID, err := createDevice(apiURL, randomDevice(clientID, client.Name))
			if err != nil {
				log.WithError(err).Error("Failed to create device")
				continue
			}
			deviceIDs = append(deviceIDs, deviceID)
		}
	}

	log.WithField("created_devices", len(deviceIDs)).Info("Seeding completed")
	if len(deviceIDs) == 0 {
		log.Error("No devices created. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		time.Sleep(2 * time.Second)
		return
	}

	mqttClient, err := connectBroker(broker)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	defer mqttClient.Disconnect(250)

	topic := "coolcare/service/completed"
	tick := time.NewTicker(interval)
	defer tick.Stop()

	log.Info("Service visit simulation started")
	for range tick.C {
		publishServiceEvent(mqttClient, topic, randomServiceEvent(deviceIDs))
	}
}
