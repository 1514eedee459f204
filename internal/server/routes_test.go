package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moviops/conductor/internal/actions"
	"github.com/moviops/conductor/internal/agent"
	"github.com/moviops/conductor/internal/db"
	"github.com/moviops/conductor/internal/llm"
	"github.com/moviops/conductor/internal/models"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}

	registry, err := actions.NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	machine, err := agent.NewMachine(agent.MachineOpts{
		DB:         gdb,
		Registry:   registry,
		Sessions:   agent.NewMemoryStore(),
		Classifier: llm.NewMockClassifier(),
	})
	if err != nil {
		t.Fatalf("machine: %v", err)
	}

	return newRouter(gdb, machine), gdb
}

func postChat(t *testing.T, router *gin.Engine, body map[string]any) (int, map[string]any) {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	json.Unmarshal(w.Body.Bytes(), &decoded)
	return w.Code, decoded
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestChatRequiresMessage(t *testing.T) {
	router, _ := newTestServer(t)

	code, body := postChat(t, router, map[string]any{"session_id": "s1"})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%v)", code, body)
	}
}

func TestChatMintsSessionID(t *testing.T) {
	router, _ := newTestServer(t)

	code, body := postChat(t, router, map[string]any{
		"message":      "list all vehicles",
		"current_page": agent.PageBusDashboard,
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d (%v)", code, body)
	}
	sid, _ := body["session_id"].(string)
	if sid == "" {
		t.Fatal("no session_id minted")
	}
}

// Full HTTP round trip of the confirmation gate against the seeded demo
// data: the 62%-booked 'Bulk - 00:01' trip parks on confirmation, then
// executes on "yes".
func TestChatConfirmationFlow(t *testing.T) {
	router, gdb := newTestServer(t)

	code, body := postChat(t, router, map[string]any{
		"session_id":   "s1",
		"message":      "Remove the vehicle from the 'Bulk - 00:01' trip",
		"current_page": agent.PageBusDashboard,
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d (%v)", code, body)
	}
	if body["awaiting_confirmation"] != true {
		t.Fatalf("not awaiting confirmation: %v", body)
	}
	reply, _ := body["response"].(string)
	if !strings.Contains(reply, "62% booked") {
		t.Fatalf("response = %q", reply)
	}

	code, body = postChat(t, router, map[string]any{
		"session_id":   "s1",
		"message":      "yes",
		"current_page": agent.PageBusDashboard,
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["awaiting_confirmation"] != false {
		t.Fatalf("still awaiting: %v", body)
	}

	var trip models.Trip
	if err := gdb.Where("display_name = ?", "Bulk - 00:01").First(&trip).Error; err != nil {
		t.Fatalf("load trip: %v", err)
	}
	var dep models.Deployment
	if err := gdb.Where("trip_id = ?", trip.TripID).First(&dep).Error; err != nil {
		t.Fatalf("load deployment: %v", err)
	}
	if dep.VehicleID != nil {
		t.Error("vehicle still deployed after confirmed removal")
	}
}

func TestEntityListEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	for _, path := range []string{
		"/api/trips", "/api/routes", "/api/stops", "/api/paths", "/api/vehicles", "/api/drivers",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
			continue
		}
		var items []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
			t.Errorf("GET %s: not a JSON list: %v", path, err)
			continue
		}
		if len(items) == 0 {
			t.Errorf("GET %s returned no seeded rows", path)
		}
	}
}

func TestChatRejectsBadImage(t *testing.T) {
	router, _ := newTestServer(t)

	code, _ := postChat(t, router, map[string]any{
		"message":      "remove the vehicle from this trip",
		"current_page": agent.PageBusDashboard,
		"image_base64": "not base64!!!",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}
