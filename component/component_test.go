package component

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/letanthang/tiktok-shop-ex/logger"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "start:"+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "stop:"+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health { return m.health }

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "api-client", Details: "https://open-api.tiktokglobalshop.com"}
}

func TestRegister(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Register(&mockComponent{name: "client"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "client"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if got := r.Get("client"); got == nil || got.Name() != "client" {
		t.Errorf("Get(client) = %v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestLifecycleOrder(t *testing.T) {
	r := NewRegistry(nil)
	var events []string
	for _, name := range []string{"tracer", "meter", "client"} {
		_ = r.Register(&mockComponent{name: name, events: &events})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	want := []string{"start:tracer", "start:meter", "start:client", "stop:client", "stop:meter", "stop:tracer"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestStartAllError(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf))
	var events []string
	_ = r.Register(&mockComponent{name: "tracer", events: &events})
	_ = r.Register(&mockComponent{name: "client", events: &events, startErr: fmt.Errorf("VALIDATION_ERROR")})
	_ = r.Register(&mockComponent{name: "late", events: &events})

	if err := r.StartAll(context.Background()); err == nil || !strings.Contains(err.Error(), "client") {
		t.Fatalf("expected start error naming client, got %v", err)
	}
	if !strings.Contains(buf.String(), "component start failed") {
		t.Errorf("expected error log, got %q", buf.String())
	}

	events = nil
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if !reflect.DeepEqual(events, []string{"stop:tracer"}) {
		t.Errorf("only started components must be stopped, got %v", events)
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry(nil)
	var events []string
	_ = r.Register(&mockComponent{name: "a", events: &events})
	_ = r.Register(&mockComponent{name: "b", events: &events, stopErr: fmt.Errorf("stop failed")})
	_ = r.StartAll(context.Background())

	if err := r.StopAll(context.Background()); err == nil {
		t.Error("expected error from StopAll")
	}
	if events[len(events)-1] != "stop:a" {
		t.Errorf("remaining components must still stop, got %v", events)
	}
}

func TestHealthAllAndDescribe(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "tracer", health: Health{Name: "tracer", Status: StatusHealthy}})
	_ = r.Register(&describedComponent{mockComponent{name: "client", health: Health{Name: "client", Status: StatusUnhealthy}}})

	health := r.HealthAll(context.Background())
	if len(health) != 2 || health[0].Status != StatusHealthy || health[1].Status != StatusUnhealthy {
		t.Errorf("HealthAll() = %v", health)
	}

	desc := r.Describe()
	if len(desc) != 1 || desc[0].Name != "client" || desc[0].Type != "api-client" {
		t.Errorf("Describe() = %v", desc)
	}
}
