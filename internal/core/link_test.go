package core

import (
	"net/url"
	"testing"
)

func TestDecideLinkClick(t *testing.T) {
	current, _ := url.Parse("http://localhost:4200/")

	tests := []struct {
		name       string
		click      LinkClick
		wantAction ClickAction
		wantPath   string
	}{
		{
			name:       "relative in-origin link",
			click:      LinkClick{HasLink: true, Href: "/mfe1"},
			wantAction: ClickPush,
			wantPath:   "/mfe1",
		},
		{
			name:       "absolute in-origin link",
			click:      LinkClick{HasLink: true, Href: "http://localhost:4200/mfe2?x=1#top"},
			wantAction: ClickPush,
			wantPath:   "/mfe2",
		},
		{
			name:       "link to current path",
			click:      LinkClick{HasLink: true, Href: "/"},
			wantAction: ClickReplay,
			wantPath:   "/",
		},
		{
			name:       "no link",
			click:      LinkClick{},
			wantAction: ClickIgnore,
		},
		{
			name:       "empty href",
			click:      LinkClick{HasLink: true},
			wantAction: ClickIgnore,
		},
		{
			name:       "cross origin",
			click:      LinkClick{HasLink: true, Href: "https://example.com/mfe1"},
			wantAction: ClickIgnore,
		},
		{
			name:       "different port",
			click:      LinkClick{HasLink: true, Href: "http://localhost:4201/mfe1"},
			wantAction: ClickIgnore,
		},
		{
			name:       "ctrl held",
			click:      LinkClick{HasLink: true, Href: "/mfe1", Ctrl: true},
			wantAction: ClickIgnore,
		},
		{
			name:       "meta held",
			click:      LinkClick{HasLink: true, Href: "/mfe1", Meta: true},
			wantAction: ClickIgnore,
		},
		{
			name:       "shift held",
			click:      LinkClick{HasLink: true, Href: "/mfe1", Shift: true},
			wantAction: ClickIgnore,
		},
		{
			name:       "new tab target",
			click:      LinkClick{HasLink: true, Href: "/mfe1", Target: "_blank"},
			wantAction: ClickIgnore,
		},
		{
			name:       "named target stays in page",
			click:      LinkClick{HasLink: true, Href: "/mfe1", Target: "_self"},
			wantAction: ClickPush,
			wantPath:   "/mfe1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideLinkClick(current, tt.click)
			if got.Action != tt.wantAction {
				t.Fatalf("DecideLinkClick() action = %v, want %v (reason %q)", got.Action, tt.wantAction, got.Reason)
			}
			if got.Path != tt.wantPath {
				t.Errorf("DecideLinkClick() path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Action == ClickIgnore && got.Reason == "" {
				t.Error("ignored clicks should carry a reason")
			}
		})
	}
}

func TestDecideLinkClickWithoutLocation(t *testing.T) {
	got := DecideLinkClick(nil, LinkClick{HasLink: true, Href: "/mfe1"})
	if got.Action != ClickIgnore {
		t.Errorf("expected ClickIgnore without a current location, got %v", got.Action)
	}
}
