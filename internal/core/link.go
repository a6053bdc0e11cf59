package core

import "net/url"

type LinkClick struct {
	HasLink bool
	Href    string
	Target  string
	Ctrl    bool
	Meta    bool
	Shift   bool
}

type ClickAction int

const (
	ClickIgnore ClickAction = iota
	ClickPush
	ClickReplay
)

type ClickDecision struct {
	Action ClickAction
	Path   string
	Reason string
}

// DecideLinkClick decides whether an in-page link click is handled by the
// shell. ClickReplay means the link points at the current path: the click
// is intercepted but no history entry is pushed.
func DecideLinkClick(current *url.URL, click LinkClick) ClickDecision {
	if !click.HasLink {
		return ClickDecision{Action: ClickIgnore, Reason: "no link"}
	}

	if click.Href == "" {
		return ClickDecision{Action: ClickIgnore, Reason: "link has no href"}
	}

	if click.Ctrl || click.Meta || click.Shift {
		return ClickDecision{Action: ClickIgnore, Reason: "modifier key held"}
	}

	if click.Target == "_blank" {
		return ClickDecision{Action: ClickIgnore, Reason: "link opens a new tab"}
	}

	if current == nil {
		return ClickDecision{Action: ClickIgnore, Reason: "current location unknown"}
	}

	ref, err := url.Parse(click.Href)
	if err != nil {
		return ClickDecision{Action: ClickIgnore, Reason: "href is not a valid url"}
	}
	target := current.ResolveReference(ref)

	if !SameOrigin(current, target) {
		return ClickDecision{Action: ClickIgnore, Reason: "cross-origin link"}
	}

	path := PathOf(target)
	if path == PathOf(current) {
		return ClickDecision{Action: ClickReplay, Path: path}
	}

	return ClickDecision{Action: ClickPush, Path: path}
}
