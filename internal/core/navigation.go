package core

import "go.uber.org/atomic"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseRendered
	PhaseNotFound
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseRendered:
		return "rendered"
	case PhaseNotFound:
		return "not-found"
	case PhaseErrored:
		return "errored"
	default:
		return "idle"
	}
}

// NavigationTokens hands out one token per navigation. Only the holder of
// the latest token may mutate the mount point.
type NavigationTokens struct {
	latest atomic.Uint64
}

func (n *NavigationTokens) Next() uint64 {
	return n.latest.Inc()
}

func (n *NavigationTokens) Current(token uint64) bool {
	return n.latest.Load() == token
}
