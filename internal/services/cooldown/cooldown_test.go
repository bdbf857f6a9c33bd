package cooldown

import (
	"testing"
	"time"
)

func TestCheckAfterArm(t *testing.T) {
	t.Parallel()
	tr := New()
	defer tr.Stop()

	tr.Arm("user-1", time.Minute)
	remaining, active := tr.Check("user-1")
	if !active {
		t.Fatal("cooldown should be active immediately after Arm")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Fatalf("remaining = %v, want (0, 1m]", remaining)
	}
}

func TestCheckUnknownKey(t *testing.T) {
	t.Parallel()
	tr := New()
	defer tr.Stop()

	if _, active := tr.Check("nobody"); active {
		t.Fatal("unknown key should not be on cooldown")
	}
}

func TestExpiryByClockNotByRemoval(t *testing.T) {
	t.Parallel()
	tr := New()
	defer tr.Stop()

	// Freeze the clock so the AfterFunc removal cannot have fired yet when
	// the simulated time passes the expiry.
	base := time.Now()
	tr.now = func() time.Time { return base }

	tr.Arm("user-1", 60*time.Second)
	if _, active := tr.Check("user-1"); !active {
		t.Fatal("want active before expiry")
	}

	tr.now = func() time.Time { return base.Add(60 * time.Second) }
	if _, active := tr.Check("user-1"); active {
		t.Fatal("want inactive once the wall clock passed expiry, even with the entry still mapped")
	}
	if tr.Len() == 0 {
		t.Fatal("entry should still be mapped (removal is async)")
	}
}

func TestRearmExtends(t *testing.T) {
	t.Parallel()
	tr := New()
	defer tr.Stop()

	base := time.Now()
	tr.now = func() time.Time { return base }

	tr.Arm("k", 10*time.Second)
	tr.Arm("k", 30*time.Second)

	remaining, active := tr.Check("k")
	if !active || remaining != 30*time.Second {
		t.Fatalf("remaining = %v active=%v, want 30s active", remaining, active)
	}
}

func TestAutomaticRemoval(t *testing.T) {
	t.Parallel()
	tr := New()
	defer tr.Stop()

	tr.Arm("k", 10*time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for tr.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("entry was not removed after expiry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
