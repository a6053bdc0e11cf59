package core

import "sync"

type ScriptStatus int

const (
	StatusUnknown ScriptStatus = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s ScriptStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScriptRegistry records the load status of each script url. Once a url has
// succeeded it stays succeeded until Reset.
type ScriptRegistry struct {
	mu       sync.RWMutex
	statuses map[string]ScriptStatus
}

func NewScriptRegistry() *ScriptRegistry {
	return &ScriptRegistry{
		statuses: make(map[string]ScriptStatus),
	}
}

func (r *ScriptRegistry) Status(url string) ScriptStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.statuses[url]
}

func (r *ScriptRegistry) Loaded(url string) bool {
	return r.Status(url) == StatusSucceeded
}

func (r *ScriptRegistry) MarkPending(url string) {
	r.set(url, StatusPending)
}

func (r *ScriptRegistry) MarkSucceeded(url string) {
	r.set(url, StatusSucceeded)
}

func (r *ScriptRegistry) MarkFailed(url string) {
	r.set(url, StatusFailed)
}

func (r *ScriptRegistry) set(url string, status ScriptStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statuses[url] == StatusSucceeded {
		return
	}
	r.statuses[url] = status
}

// ScriptMarker is the id of the script node inserted for an element.
func ScriptMarker(elementName string) string {
	return "script-" + elementName
}
