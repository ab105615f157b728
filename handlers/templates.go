package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"salon-booking/models"
	"salon-booking/sessions"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"index", "register", "login", "dashboard", "payment", "booking"} {
		pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
}

// pageData is the single view model shared by all templates.
type pageData struct {
	Title    string
	User     *sessions.Identity
	Flashes  []sessions.Flash
	Form     map[string]string
	Draft    *models.Draft
	Booking  *models.Booking
	Bookings []models.Booking
}

func render(w http.ResponseWriter, status int, name string, data pageData) error {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
