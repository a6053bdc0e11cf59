package core

import (
	"bytes"
	"html/template"
)

var views = template.Must(template.New("views").Parse(`
{{- define "home" -}}
<h2>Home</h2><p>Welcome to the microfrontend shell!</p>
{{- end -}}
{{- define "loading-script" -}}
<p>Loading MFE from script: {{.URL}}...</p>
{{- end -}}
{{- define "loading-federated" -}}
<p>Loading federated MFE: {{.Remote}} ({{.Module}})...</p>
{{- end -}}
{{- define "not-found" -}}
<h2>404 Not Found</h2><p>Sorry, the page you requested could not be found.</p>
{{- end -}}
{{- define "error" -}}
<h2>Error Loading Microfrontend</h2><p>Failed to load content for {{.Path}}.</p><pre>{{.Message}}</pre>
{{- end -}}
{{- define "fatal" -}}
<h2>Application Initialization Failed</h2><p>Could not start the microfrontend shell. Please check the console for details.</p><pre>{{.Message}}</pre>
{{- end -}}
`))

func renderView(name string, data any) string {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		return template.HTMLEscapeString(err.Error())
	}
	return buf.String()
}

func HomeView() string {
	return renderView("home", nil)
}

func LoadingScriptView(scriptURL string) string {
	return renderView("loading-script", struct{ URL string }{scriptURL})
}

func LoadingFederatedView(remoteName, exposedModule string) string {
	return renderView("loading-federated", struct{ Remote, Module string }{remoteName, exposedModule})
}

func NotFoundView() string {
	return renderView("not-found", nil)
}

func ErrorView(path string, err error) string {
	return renderView("error", struct{ Path, Message string }{path, messageOf(err)})
}

func FatalView(err error) string {
	return renderView("fatal", struct{ Message string }{messageOf(err)})
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
