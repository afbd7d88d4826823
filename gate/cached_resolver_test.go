package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/go-gestion/gate"
)

func TestCachedResolver_ServesCachedRole(t *testing.T) {
	inner := gate.NewStaticResolver[uint]()
	inner.Set(1, gate.NewStaticRole("Manager"))
	cached := gate.NewCachedResolver[uint](inner, time.Minute)

	if r, _ := cached.Resolve(context.Background(), 1); r.Name() != "Manager" {
		t.Fatalf("first resolve = %q", r.Name())
	}
	inner.Set(1, gate.NewStaticRole("PDG"))
	if r, _ := cached.Resolve(context.Background(), 1); r.Name() != "Manager" {
		t.Errorf("expected cached Manager, got %q", r.Name())
	}

	cached.Invalidate(1)
	if r, _ := cached.Resolve(context.Background(), 1); r.Name() != "PDG" {
		t.Errorf("expected PDG after Invalidate, got %q", r.Name())
	}
}

func TestCachedResolver_InvalidateAll(t *testing.T) {
	inner := gate.NewStaticResolver[uint]()
	inner.Set(1, gate.NewStaticRole("Employé"))
	inner.Set(2, gate.NewStaticRole("Employé"))
	cached := gate.NewCachedResolver[uint](inner, time.Minute)
	_, _ = cached.Resolve(context.Background(), 1)
	_, _ = cached.Resolve(context.Background(), 2)

	inner.Set(1, gate.NewStaticRole("ManagerPlus"))
	inner.Set(2, gate.NewStaticRole("ManagerPlus"))
	cached.InvalidateAll()

	r1, _ := cached.Resolve(context.Background(), 1)
	r2, _ := cached.Resolve(context.Background(), 2)
	if r1.Name() != "ManagerPlus" || r2.Name() != "ManagerPlus" {
		t.Errorf("got %q and %q after InvalidateAll", r1.Name(), r2.Name())
	}
}

func TestCachedResolver_TTLExpiry(t *testing.T) {
	inner := gate.NewStaticResolver[uint]()
	inner.Set(1, gate.NewStaticRole("Employé"))
	cached := gate.NewCachedResolver[uint](inner, 10*time.Millisecond)
	_, _ = cached.Resolve(context.Background(), 1)

	inner.Set(1, gate.NewStaticRole("PDG"))
	time.Sleep(20 * time.Millisecond)

	if r, _ := cached.Resolve(context.Background(), 1); r.Name() != "PDG" {
		t.Errorf("expected PDG after expiry, got %q", r.Name())
	}
}
