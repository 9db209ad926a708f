package sched

import (
	"testing"
	"time"
)

func TestDefaultAfterFires(t *testing.T) {
	done := make(chan struct{})
	Default().After(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task never fired")
	}
}

func TestDefaultCancelPreventsFire(t *testing.T) {
	fired := make(chan struct{}, 1)
	h := Default().After(50*time.Millisecond, func() { fired <- struct{}{} })

	if !h.Cancel() {
		t.Fatal("Cancel() = false, want true for pending task")
	}
	select {
	case <-fired:
		t.Fatal("task fired after cancellation")
	case <-time.After(100 * time.Millisecond):
	}
	if h.Cancel() {
		t.Error("second Cancel() = true, want false")
	}
}

func TestManualFireOrder(t *testing.T) {
	m := &Manual{}
	var got []int
	m.After(time.Second, func() { got = append(got, 1) })
	m.After(time.Second, func() { got = append(got, 2) })

	if n := m.Pending(); n != 2 {
		t.Fatalf("Pending() = %d, want 2", n)
	}
	if !m.Fire() {
		t.Fatal("Fire() = false, want true")
	}
	if !m.Fire() {
		t.Fatal("second Fire() = false, want true")
	}
	if m.Fire() {
		t.Error("third Fire() = true, want false with no pending tasks")
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("fire order = %v, want [1 2]", got)
	}
}

func TestManualCancel(t *testing.T) {
	m := &Manual{}
	ran := false
	h := m.After(time.Second, func() { ran = true })

	if !h.Cancel() {
		t.Fatal("Cancel() = false, want true")
	}
	if m.Fire() {
		t.Error("Fire() = true after cancel, want false")
	}
	if ran {
		t.Error("cancelled task ran")
	}
	if h.Cancel() {
		t.Error("second Cancel() = true, want false")
	}
}

func TestManualCancelAfterFire(t *testing.T) {
	m := &Manual{}
	h := m.After(time.Second, func() {})
	m.Fire()
	if h.Cancel() {
		t.Error("Cancel() after fire = true, want false")
	}
}
