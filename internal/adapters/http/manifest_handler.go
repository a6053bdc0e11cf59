package http

import (
	"encoding/json"
	"net/http"

	"github.com/3-lines-studio/mfeshell/internal/adapters/federation"
)

// NewManifestHandler serves the federation manifest as JSON.
func NewManifestHandler(manifest func() federation.Manifest) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		m := manifest()
		if m == nil {
			m = federation.Manifest{}
		}

		data, err := json.Marshal(m)
		if err != nil {
			serveError(w, err, false)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(data)
	})
}
