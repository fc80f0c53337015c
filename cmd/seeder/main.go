package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Seeder posts demo listings to a running API instance. It registers a
// throwaway account, then creates a mix of bus and spare listings.

var authToken string

// onePixelPNG is a 1x1 transparent PNG, enough to exercise the image
// upload path.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

var busMakes = []string{"Tata", "Ashok Leyland", "Eicher", "BharatBenz", "Volvo"}
var busModels = []string{"Starbus", "Viking", "Skyline", "1017", "9400"}
var locations = []string{
	"Chennai, Tamil Nadu",
	"Coimbatore, Tamil Nadu",
	"Kochi, Kerala",
	"Bengaluru, Karnataka",
	"Hyderabad, Telangana",
}
var conditions = []string{"New", "Used", "Refurbished"}

func dataURIImage() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(onePixelPNG)
}

func postJSON(url string, payload interface{}) (map[string]interface{}, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, resp.StatusCode, nil
}

func register(apiURL string) error {
	mobile := fmt.Sprintf("9%09d", rand.Intn(1_000_000_000))
	result, status, err := postJSON(apiURL+"/auth/register", map[string]string{
		"fullName": "Seed Account",
		"mobile":   mobile,
		"password": "seed-password-1",
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("registration failed with status: %d", status)
	}

	data, _ := result["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		return fmt.Errorf("no token in registration response")
	}
	authToken = token

	log.WithField("mobile", mobile).Info("Registered seed account")
	return nil
}

func createVehicle(apiURL string) error {
	payload := map[string]interface{}{
		"title":            "Seeded bus listing",
		"make":             busMakes[rand.Intn(len(busMakes))],
		"model":            busModels[rand.Intn(len(busModels))],
		"price":            float64(500000 + rand.Intn(2_000_000)),
		"location":         locations[rand.Intn(len(locations))],
		"type":             "bus",
		"imageUrl":         dataURIImage(),
		"year_manufacture": 2010 + rand.Intn(15),
		"seating_capacity": 30 + rand.Intn(30),
		"condition":        conditions[rand.Intn(len(conditions))],
		"description":      "Demo listing created by the seeder",
	}

	result, status, err := postJSON(apiURL+"/vehicle/add", payload)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("vehicle creation failed with status: %d", status)
	}

	data, _ := result["data"].(map[string]interface{})
	log.WithFields(log.Fields{
		"vehicle_id": data["id"],
		"make":       payload["make"],
		"model":      payload["model"],
	}).Info("Created vehicle")
	return nil
}

func createSpare(apiURL string) error {
	payload := map[string]interface{}{
		"title":       "Seeded spare part",
		"make":        busMakes[rand.Intn(len(busMakes))],
		"partNumber":  fmt.Sprintf("PN-%05d", rand.Intn(100000)),
		"price":       float64(1000 + rand.Intn(50000)),
		"location":    locations[rand.Intn(len(locations))],
		"condition":   conditions[rand.Intn(len(conditions))],
		"description": "Demo spare created by the seeder",
		"imageUrl":    dataURIImage(),
	}

	result, status, err := postJSON(apiURL+"/spare/add", payload)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("spare creation failed with status: %d", status)
	}

	data, _ := result["data"].(map[string]interface{})
	log.WithFields(log.Fields{
		"spare_id":    data["id"],
		"part_number": payload["partNumber"],
	}).Info("Created spare")
	return nil
}

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	count := 10
	if v := os.Getenv("SEED_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}

	if err := register(apiURL); err != nil {
		log.Fatalf("Failed to register seed account: %v", err)
	}

	for i := 0; i < count; i++ {
		if err := createVehicle(apiURL); err != nil {
			log.WithError(err).Error("Failed to create vehicle")
		}
		if err := createSpare(apiURL); err != nil {
			log.WithError(err).Error("Failed to create spare")
		}
	}

	log.Info("Seeding complete")
}
