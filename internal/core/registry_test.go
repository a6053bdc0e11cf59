package core

import (
	"sync"
	"testing"
)

func TestScriptRegistry(t *testing.T) {
	t.Run("unknown url", func(t *testing.T) {
		r := NewScriptRegistry()
		if got := r.Status("/a.js"); got != StatusUnknown {
			t.Errorf("Status() = %v, want unknown", got)
		}
		if r.Loaded("/a.js") {
			t.Error("unknown url should not be loaded")
		}
	})

	t.Run("failure never marks loaded", func(t *testing.T) {
		r := NewScriptRegistry()
		r.MarkPending("/a.js")
		r.MarkFailed("/a.js")
		if r.Loaded("/a.js") {
			t.Error("failed url should not be loaded")
		}
		if got := r.Status("/a.js"); got != StatusFailed {
			t.Errorf("Status() = %v, want failed", got)
		}
	})

	t.Run("success is monotonic", func(t *testing.T) {
		r := NewScriptRegistry()
		r.MarkPending("/a.js")
		r.MarkSucceeded("/a.js")
		r.MarkFailed("/a.js")
		r.MarkPending("/a.js")
		if got := r.Status("/a.js"); got != StatusSucceeded {
			t.Errorf("Status() = %v, want succeeded", got)
		}
	})

	t.Run("failed url may retry", func(t *testing.T) {
		r := NewScriptRegistry()
		r.MarkFailed("/a.js")
		r.MarkPending("/a.js")
		r.MarkSucceeded("/a.js")
		if !r.Loaded("/a.js") {
			t.Error("retried url should be loaded")
		}
	})

	t.Run("concurrent writers", func(t *testing.T) {
		r := NewScriptRegistry()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.MarkPending("/a.js")
				r.MarkSucceeded("/a.js")
			}()
		}
		wg.Wait()
		if !r.Loaded("/a.js") {
			t.Error("expected url to be loaded")
		}
	})
}

func TestScriptMarker(t *testing.T) {
	if got := ScriptMarker("my-angular-element"); got != "script-my-angular-element" {
		t.Errorf("ScriptMarker() = %q", got)
	}
}

func TestNavigationTokens(t *testing.T) {
	var n NavigationTokens
	first := n.Next()
	if !n.Current(first) {
		t.Fatal("fresh token should be current")
	}
	second := n.Next()
	if n.Current(first) {
		t.Error("older token should be stale")
	}
	if !n.Current(second) {
		t.Error("latest token should be current")
	}
}
