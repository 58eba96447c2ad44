package search

import (
	"testing"
	"time"
)

func TestBreaker_StartsAvailable(t *testing.T) {
	b := NewBreaker(time.Minute)
	if !b.Available() {
		t.Fatal("new breaker must start available")
	}
}

func TestBreaker_CooldownWindow(t *testing.T) {
	b := NewBreaker(50 * time.Millisecond)
	b.MarkUnavailable()
	if b.Available() {
		t.Fatal("breaker available immediately after failure")
	}
	time.Sleep(80 * time.Millisecond)
	if !b.Available() {
		t.Fatal("breaker still closed after the cooldown elapsed")
	}
}

func TestBreaker_RepeatedFailuresExtendTheWindow(t *testing.T) {
	b := NewBreaker(50 * time.Millisecond)
	b.MarkUnavailable()
	time.Sleep(30 * time.Millisecond)
	b.MarkUnavailable()
	time.Sleep(30 * time.Millisecond)
	if b.Available() {
		t.Fatal("second failure did not restart the window")
	}
}

func TestBreaker_NonPositiveCooldownUsesDefault(t *testing.T) {
	b := NewBreaker(0)
	if b.cooldown != DefaultCooldown {
		t.Fatalf("cooldown: got %v, want %v", b.cooldown, DefaultCooldown)
	}
}
