package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetOrComputeCachesValue(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := GetOrCompute(c, "k", compute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 42 {
			t.Fatalf("expected 42, got %d", v)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one compute call, got %d", calls)
	}
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	failing := func() (int, error) {
		calls++
		return 0, errors.New("nope")
	}

	for i := 0; i < 2; i++ {
		if _, err := GetOrCompute(c, "k", failing); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 2 {
		t.Fatalf("expected compute retried, got %d calls", calls)
	}
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "v", nil
	}

	if _, err := GetOrCompute(c, "payroll:w1:2025-03", compute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Invalidate("payroll:w1:2025-03")
	if _, err := GetOrCompute(c, "payroll:w1:2025-03", compute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected recompute after invalidation, got %d calls", calls)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(time.Minute)
	for _, key := range []string{"payroll:w1:a", "payroll:w1:b", "payroll:w2:a"} {
		k := key
		if _, err := GetOrCompute(c, k, func() (string, error) { return k, nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	c.InvalidatePrefix("payroll:w1:")

	if _, ok := c.get("payroll:w1:a"); ok {
		t.Fatal("expected payroll:w1:a dropped")
	}
	if _, ok := c.get("payroll:w2:a"); !ok {
		t.Fatal("expected payroll:w2:a kept")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.set("k", 1)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.get("k"); ok {
		t.Fatal("expected entry expired")
	}
}
