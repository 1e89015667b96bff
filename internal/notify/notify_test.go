package notify

import "testing"

func TestFallbackMessages(t *testing.T) {
	c := NewCenter(10)

	c.Success("", "Compliance saved")
	latest, ok := c.Latest()
	if !ok || latest.Message != "Compliance saved" {
		t.Fatalf("expected fallback message, got %+v", latest)
	}

	c.Success("Server says hi", "ignored fallback")
	latest, _ = c.Latest()
	if latest.Message != "Server says hi" {
		t.Errorf("server message should win, got %q", latest.Message)
	}

	c.Error("", "Failed to save compliance")
	latest, _ = c.Latest()
	if latest.Level != LevelError || latest.Message != "Failed to save compliance" {
		t.Errorf("got %+v", latest)
	}
}

func TestBoundedFeed(t *testing.T) {
	c := NewCenter(3)
	for i := 0; i < 10; i++ {
		c.Info("msg")
	}
	if got := len(c.Recent(0)); got != 3 {
		t.Errorf("feed should be capped at 3, got %d", got)
	}
}

func TestLatestEmpty(t *testing.T) {
	c := NewCenter(1)
	if _, ok := c.Latest(); ok {
		t.Error("empty center should report no notification")
	}
}
