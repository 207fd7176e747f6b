package backup

import (
	"strings"
	"testing"
	"time"

	"rentalflow/internal/backend"
)

func TestRenderSQLite(t *testing.T) {
	r := NewReminder("rentalflow", backend.SQLiteBackend, "./data/rentalflow.db", "")
	out, err := r.Render(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"Backup reminder for rentalflow (2024-03-15)",
		"Backend: sqlite",
		"cp ./data/rentalflow.db ./data/rentalflow.db.bak",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMongo(t *testing.T) {
	r := NewReminder("rentalflow", backend.MongoBackend, "", "rentalflow")
	out, err := r.Render(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(out, "mongodump --db rentalflow") {
		t.Errorf("output missing mongodump instructions:\n%s", out)
	}
}

func TestRenderMemory(t *testing.T) {
	r := NewReminder("rentalflow", backend.MemoryBackend, "", "")
	out, err := r.Render(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(out, "no durable data") {
		t.Errorf("output missing memory backend note:\n%s", out)
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := NewReminder("rentalflow", backend.SQLiteBackend, "./db", "")
	when := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)

	a, _ := r.Render(when)
	b, _ := r.Render(when)
	if a != b {
		t.Error("Render is not deterministic for a fixed time")
	}
}
