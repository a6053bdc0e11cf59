package core

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

const (
	DefaultMountID = "content"
	// ClientConfigID is the id of the JSON block the client reads at startup.
	ClientConfigID = "__MFESHELL_CONFIG__"
)

type NavLink struct {
	Path  string
	Label string
}

type HostPage struct {
	Title        string
	MountID      string
	Links        []NavLink
	ClientConfig any
	WasmExecSrc  string
	WasmSrc      string
	HeadHTML     string
	CSSHref      string
}

// RenderHostPage renders the document the wasm client boots in. The client
// configuration is embedded as JSON and read back by the client at startup.
func RenderHostPage(page HostPage) (string, error) {
	if page.WasmSrc == "" {
		return "", fmt.Errorf("missing wasm src")
	}
	if page.WasmExecSrc == "" {
		return "", fmt.Errorf("missing wasm_exec src")
	}

	title := page.Title
	if title == "" {
		title = "Microfrontend Shell"
	}

	mountID := page.MountID
	if mountID == "" {
		mountID = DefaultMountID
	}

	configJSON := []byte("{}")
	if page.ClientConfig != nil {
		var err error
		configJSON, err = json.Marshal(page.ClientConfig)
		if err != nil {
			return "", err
		}
	}
	escapedConfig := strings.ReplaceAll(string(configJSON), "</", "<\\/")

	// json.Marshal escapes <, > and & so both values are safe inside <script>.
	mountJSON, err := json.Marshal(mountID)
	if err != nil {
		return "", err
	}
	panelJSON, err := json.Marshal(FatalView(nil))
	if err != nil {
		return "", err
	}

	head := `<meta charset="UTF-8" /><meta name="viewport" content="width=device-width, initial-scale=1.0" />`
	head += fmt.Sprintf("<title>%s</title>", html.EscapeString(title))
	if page.CSSHref != "" {
		head += fmt.Sprintf(`<link rel="stylesheet" href="%s" />`, html.EscapeString(page.CSSHref))
	}
	if page.HeadHTML != "" {
		head += page.HeadHTML
	}

	var nav strings.Builder
	for _, link := range page.Links {
		label := link.Label
		if label == "" {
			label = link.Path
		}
		fmt.Fprintf(&nav, `<a href="%s">%s</a> `, html.EscapeString(link.Path), html.EscapeString(label))
	}

	out := fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    %s
  </head>
  <body>
    <nav>%s</nav>
    <div id="%s"></div>
    <script id="%s" type="application/json">%s</script>
    <script>window.__mfeshellImport = (url) => import(url);</script>
    <script src="%s"></script>
    <script>
      const go = new Go();
      const startupFailed = (err) => {
        console.error(err);
        const mount = document.getElementById(%s);
        if (!mount) return;
        mount.innerHTML = %s;
        mount.querySelector("pre").textContent = err && err.message ? err.message : String(err);
      };
      WebAssembly.instantiateStreaming(fetch("%s"), go.importObject).then((result) => go.run(result.instance)).catch(startupFailed);
    </script>
  </body>
</html>
`, head, strings.TrimSpace(nav.String()), html.EscapeString(mountID), ClientConfigID, escapedConfig, html.EscapeString(page.WasmExecSrc), mountJSON, panelJSON, html.EscapeString(page.WasmSrc))

	return out, nil
}
