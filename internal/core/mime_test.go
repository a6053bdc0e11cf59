package core

import "testing"

func TestAssetContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "shell.wasm", want: "application/wasm"},
		{name: "wasm_exec.js", want: "text/javascript; charset=utf-8"},
		{name: "remote/Entry.MJS", want: "text/javascript; charset=utf-8"},
		{name: "styles.css", want: "text/css; charset=utf-8"},
		{name: "shell.wasm.gz", want: "application/octet-stream"},
		{name: "LICENSE", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssetContentType(tt.name); got != tt.want {
				t.Errorf("AssetContentType(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsScriptContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want bool
	}{
		{ct: "application/javascript", want: true},
		{ct: "text/javascript; charset=utf-8", want: true},
		{ct: "Text/JavaScript", want: true},
		{ct: "application/json"},
		{ct: "text/html; charset=utf-8"},
		{ct: "text/plain; javascript=yes"},
		{ct: ""},
	}

	for _, tt := range tests {
		if got := IsScriptContentType(tt.ct); got != tt.want {
			t.Errorf("IsScriptContentType(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}
