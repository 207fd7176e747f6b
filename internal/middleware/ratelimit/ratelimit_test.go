package ratelimit

import "testing"

func TestAllowWithinBudget(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 3})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within budget", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("request over budget was allowed")
	}
}

func TestClientsAreIndependent(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 1})
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("second request from same client allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("other client throttled by the first client's budget")
	}
	if l.ActiveClients() != 2 {
		t.Fatalf("ActiveClients = %d, want 2", l.ActiveClients())
	}
}

func TestZeroConfigFallsBackToDefaults(t *testing.T) {
	l := NewLimiter(Config{})
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("default budget denied the first request")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	l.Stop()
}
