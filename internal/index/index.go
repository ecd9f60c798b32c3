// Package index renders the landing page that links to every hosted game.
package index

import (
	"bytes"
	"html/template"

	"github.com/ahamlinman/gamehost/internal/games"
)

// ContentType is the Content-Type of a rendered page.
const ContentType = "text/html; charset=utf-8"

// html/template escapes the names for us. Directory names come from whoever
// deployed the games, so they are not trusted markup.
var page = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Available Games</title>
</head>
<body>
    <h1>Available Games</h1>
    <ul>
{{- range .}}
        <li><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
    </ul>
</body>
</html>
`))

// Render returns the landing page listing gs, in order.
func Render(gs []games.Game) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, gs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
