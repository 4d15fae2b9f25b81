package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"loadplan/internal/model"
)

const heartbeatEvery = 15 * time.Second

// planEventsSSE streams a plan's progress as server-sent events until the plan
// completes or fails, or the client goes away.
func (s *Server) planEventsSSE(w http.ResponseWriter, r *http.Request, id string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	p := s.getPrincipal(r)
	// subscribe before reading the plan so a completion in between is not lost
	ch := s.Broker.Subscribe(id)
	defer s.Broker.Unsubscribe(id, ch)
	plan, err := s.Store.GetPlan(r.Context(), p.Tenant, id)
	if err != nil {
		writeError(w, r, "Get plan failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	writeSSE(w, "heartbeat", map[string]any{"planId": id, "ts": time.Now().UTC().Format(time.RFC3339)})
	flusher.Flush()

	if plan.IsTerminal() {
		writeSSE(w, terminalEvent(plan).Type, terminalEvent(plan).Data)
		flusher.Flush()
		return
	}

	ticker := time.NewTicker(heartbeatEvery)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, evt.Type, evt.Data)
			flusher.Flush()
			if evt.Type == EventPlanCompleted || evt.Type == EventPlanFailed {
				return
			}
		case <-ticker.C:
			writeSSE(w, "heartbeat", map[string]any{"planId": id, "ts": time.Now().UTC().Format(time.RFC3339)})
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, data any) {
	b, _ := json.Marshal(data)
	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", b)
}

// terminalEvent rebuilds the final stream event for a plan that has already finished.
func terminalEvent(p model.Plan) Event {
	if p.Status == model.PlanFailed {
		return Event{Type: EventPlanFailed, Data: map[string]any{"planId": p.ID, "error": p.Error}}
	}
	return Event{Type: EventPlanCompleted, Data: planSummary(p)}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// wsMessage is the frame exchanged on /v1/plans/ws.
//
// Client: connection_init, ping, subscribe {id, planId}, complete {id}.
// Server: connection_ack, pong, next {id, payload: Event}, error {id, payload}, complete {id}.
type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	PlanID  string          `json:"planId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PlanWSHandler multiplexes plan event subscriptions over one websocket.
func (s *Server) PlanWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	type sub struct {
		planID string
		ch     chan Event
	}
	var (
		mu   sync.Mutex // gorilla allows one concurrent writer
		subs = map[string]sub{}
		smu  sync.Mutex
		done = make(chan struct{})
		wg   sync.WaitGroup
	)
	write := func(v wsMessage) error {
		mu.Lock()
		defer mu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(v)
	}
	fail := func(id, msg string) {
		b, _ := json.Marshal(map[string]string{"message": msg})
		_ = write(wsMessage{Type: "error", ID: id, Payload: b})
		_ = write(wsMessage{Type: "complete", ID: id})
	}
	drop := func(id string) {
		smu.Lock()
		defer smu.Unlock()
		if s0, ok := subs[id]; ok {
			s.Broker.Unsubscribe(s0.planID, s0.ch)
			delete(subs, id)
		}
	}
	defer func() {
		close(done)
		smu.Lock()
		for id, s0 := range subs {
			s.Broker.Unsubscribe(s0.planID, s0.ch)
			delete(subs, id)
		}
		smu.Unlock()
		wg.Wait()
	}()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(60 * time.Second)) })

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				mu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	p := s.getPrincipal(r)
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		switch msg.Type {
		case "connection_init":
			_ = write(wsMessage{Type: "connection_ack"})
		case "ping":
			_ = write(wsMessage{Type: "pong"})
		case "subscribe":
			if msg.ID == "" || msg.PlanID == "" {
				fail(msg.ID, "id and planId required")
				continue
			}
			smu.Lock()
			_, dup := subs[msg.ID]
			smu.Unlock()
			if dup {
				fail(msg.ID, "subscription id already in use")
				continue
			}
			ch := s.Broker.Subscribe(msg.PlanID)
			plan, err := s.Store.GetPlan(r.Context(), p.Tenant, msg.PlanID)
			if err != nil {
				s.Broker.Unsubscribe(msg.PlanID, ch)
				fail(msg.ID, err.Error())
				continue
			}
			if plan.IsTerminal() {
				s.Broker.Unsubscribe(msg.PlanID, ch)
				b, _ := json.Marshal(terminalEvent(plan))
				_ = write(wsMessage{Type: "next", ID: msg.ID, Payload: b})
				_ = write(wsMessage{Type: "complete", ID: msg.ID})
				continue
			}
			smu.Lock()
			subs[msg.ID] = sub{planID: msg.PlanID, ch: ch}
			smu.Unlock()
			wg.Add(1)
			go func(id string, c chan Event) {
				defer wg.Done()
				for evt := range c {
					b, _ := json.Marshal(evt)
					_ = write(wsMessage{Type: "next", ID: id, Payload: b})
					if evt.Type == EventPlanCompleted || evt.Type == EventPlanFailed {
						_ = write(wsMessage{Type: "complete", ID: id})
						drop(id)
						return
					}
				}
			}(msg.ID, ch)
		case "complete":
			drop(msg.ID)
		}
	}
}
