package federation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// Manifest maps remote names to the url of their remoteEntry.json. It is
// served to the client as /federation.manifest.json.
type Manifest map[string]string

func (m Manifest) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m Manifest) Validate() error {
	for _, name := range m.Names() {
		if name == "" {
			return fmt.Errorf("remote name cannot be empty")
		}
		if _, err := ParseEntryURL(m[name]); err != nil {
			return fmt.Errorf("remote %s: %w", name, err)
		}
	}
	return nil
}

func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid federation manifest: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, m.Validate()
}

func ParseEntryURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid remote entry url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote entry url %q must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("remote entry url %q has no host", raw)
	}
	return u, nil
}
