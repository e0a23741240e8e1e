package render

import (
	"fmt"
	"html/template"
	"net/http"
)

var pageTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Code}} {{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Text}}</p>
<p><a href="/">Return home</a></p>
</body>
</html>
`))

type page struct {
	Code  int
	Title string
	Text  string
}

var pages = map[int]page{
	http.StatusUnauthorized:        {http.StatusUnauthorized, "Unauthorized", "You are not authorized to see this page. Please log in."},
	http.StatusNotFound:            {http.StatusNotFound, "Page Not Found", "Sorry, that page doesn't exist."},
	http.StatusInternalServerError: {http.StatusInternalServerError, "Internal Server Error", "Sorry, something went wrong on our end."},
}

// Page renders the HTML error page for code. Codes without a page render as 500.
// The status is already sent when an execution error is returned.
func Page(w http.ResponseWriter, code int) error {
	p, ok := pages[code]
	if !ok {
		p = pages[http.StatusInternalServerError]
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.Code)
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render %d page: %w", p.Code, err)
	}
	return nil
}
