// Package main runs a demo WebSocket client that follows an async solve.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	PlanID  string          `json:"planId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type load struct {
	ID      int   `json:"id"`
	Pickup  point `json:"pickup"`
	Dropoff point `json:"dropoff"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// 40 random loads, solved in the background
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	loads := make([]load, 40)
	for i := range loads {
		loads[i] = load{
			ID:      i + 1,
			Pickup:  point{rng.Float64()*200 - 100, rng.Float64()*200 - 100},
			Dropoff: point{rng.Float64()*200 - 100, rng.Float64()*200 - 100},
		}
	}
	body, _ := json.Marshal(map[string]any{
		"planDate": time.Now().Format("2006-01-02"),
		"loads":    loads,
		"async":    true,
		"config":   map[string]any{"generations": 500, "snapshotEvery": 25},
	})
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "t_demo")
	req.Header.Set("X-Role", "admin")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusAccepted {
		log.Fatalf("solve: unexpected status %d", resp.StatusCode)
	}
	var plan struct {
		ID string `json:"planId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		log.Fatal(err)
	}
	log.Printf("Plan ID: %s", plan.ID)

	// Connect WS
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/plans/ws"}
	hdr := http.Header{}
	hdr.Set("X-Tenant-Id", "t_demo")
	hdr.Set("X-Role", "admin")
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		log.Fatal(err)
	}
	if err := c.WriteJSON(wsMessage{Type: "subscribe", ID: "1", PlanID: plan.ID}); err != nil {
		log.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
			if m.Type == "complete" {
				return
			}
		}
	}()

	select {
	case <-time.After(60 * time.Second):
		log.Printf("timed out waiting for plan %s", plan.ID)
	case <-done:
	}
}
