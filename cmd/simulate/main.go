// simulate races many concurrent allocation requests against a running
// api-server to demonstrate the at-most-N guarantee: for a capacity-1 slot
// exactly one request must receive 201 and every other a 409.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type SimConfig struct {
	APIBaseURL string
	Workers    int
	ServiceID  string
	Date       string
	Slot       string
}

type allocateRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	Slot      string `json:"slot"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func loadSimConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Workers:    getEnvInt("SIM_WORKERS", 16),
		ServiceID:  os.Getenv("SIM_SERVICE_ID"),
		Date:       getEnv("SIM_DATE", time.Now().UTC().Format("2006-01-02")),
		Slot:       getEnv("SIM_SLOT", "10:00-12:00"),
	}
	if cfg.ServiceID == "" {
		log.Fatal("SIM_SERVICE_ID is required")
	}
	return cfg
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := loadSimConfig()
	log.Printf("racing %d workers for service=%s date=%s slot=%s",
		cfg.Workers, cfg.ServiceID, cfg.Date, cfg.Slot)

	var created, capacityExceeded, noResource, contended, other int64

	body, err := json.Marshal(allocateRequest{
		ServiceID: cfg.ServiceID,
		Date:      cfg.Date,
		Slot:      cfg.Slot,
	})
	if err != nil {
		log.Fatalf("marshal request: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			resp, err := client.Post(cfg.APIBaseURL+"/bookings", "application/json", bytes.NewReader(body))
			if err != nil {
				atomic.AddInt64(&other, 1)
				log.Printf("request error: %v", err)
				return
			}
			defer resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusCreated:
				atomic.AddInt64(&created, 1)
			case http.StatusConflict:
				var er errorResponse
				raw, _ := io.ReadAll(resp.Body)
				_ = json.Unmarshal(raw, &er)
				switch er.Error {
				case "capacity_exceeded":
					atomic.AddInt64(&capacityExceeded, 1)
				case "no_resource_available":
					atomic.AddInt64(&noResource, 1)
				case "slot_contended":
					atomic.AddInt64(&contended, 1)
				default:
					atomic.AddInt64(&other, 1)
					log.Printf("unexpected conflict: %s", raw)
				}
			default:
				atomic.AddInt64(&other, 1)
				raw, _ := io.ReadAll(resp.Body)
				log.Printf("unexpected status %d: %s", resp.StatusCode, raw)
			}
		}()
	}

	close(start)
	wg.Wait()

	fmt.Printf("workers=%d created=%d capacity_exceeded=%d no_resource=%d contended=%d other=%d\n",
		cfg.Workers, created, capacityExceeded, noResource, contended, other)

	if created > 1 {
		log.Printf("WARNING: %d bookings created for one slot, capacity may be over-allocated", created)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
