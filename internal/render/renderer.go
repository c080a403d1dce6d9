// Package render turns session state into pages. Building a view model is a
// pure function of the state; the HTML and text writers only format it.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/nimbus/client/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	brand        = "NIMBUS"
	submitLabel  = "Get Forecast & Scout Locations"
	refreshAfter = 2
)

// WelcomeView is the data of the welcome gate: static branding plus the
// single enter action
type WelcomeView struct {
	Title       string
	Tagline     string
	EnterLabel  string
	EnterAction string
}

// ActivityOption is one entry of the activity select
type ActivityOption struct {
	Value    string
	Label    string
	Selected bool
}

// FormView is the forecast form as displayed
type FormView struct {
	Action      string
	Location    string
	Options     []ActivityOption
	SubmitLabel string
	Disabled    bool
	Error       string
}

// WelcomePage is the full welcome document
type WelcomePage struct {
	Title          string
	CSS            template.CSS
	RefreshSeconds int
	View           WelcomeView
}

// ForecastPage is the full forecast document
type ForecastPage struct {
	Title          string
	CSS            template.CSS
	RefreshSeconds int
	Brand          string
	ActivityLabel  string
	Form           FormView
	Result         ResultView
}

// Renderer writes HTML pages with one theme
type Renderer struct {
	tmpl  *template.Template
	theme Theme
	loc   *time.Location
}

// NewRenderer parses the embedded templates
func NewRenderer(theme Theme, loc *time.Location) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: failed to parse templates: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{tmpl: tmpl, theme: theme, loc: loc}, nil
}

// Theme returns the renderer's theme
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Location returns the zone hourly plan times are shown in
func (r *Renderer) Location() *time.Location {
	return r.loc
}

// NewWelcomeView returns the welcome gate whose action posts to enterAction
func NewWelcomeView(enterAction string) WelcomeView {
	return WelcomeView{
		Title:       brand,
		Tagline:     "Rain forecasts and activity plans, scouted for your city.",
		EnterLabel:  "Enter App",
		EnterAction: enterAction,
	}
}

// BuildWelcomePage assembles the welcome document
func (r *Renderer) BuildWelcomePage(view WelcomeView) WelcomePage {
	return WelcomePage{
		Title: brand,
		CSS:   r.theme.WelcomeCSS(),
		View:  view,
	}
}

// BuildForecastPage assembles the forecast document from the form input
// and request state. formErr is shown under the location field.
func (r *Renderer) BuildForecastPage(action string, input domain.FormInput, state domain.RequestState, formErr string) ForecastPage {
	form := FormView{
		Action:      action,
		Location:    input.Location,
		SubmitLabel: submitLabel,
		Error:       formErr,
	}
	for _, a := range domain.Activities {
		form.Options = append(form.Options, ActivityOption{
			Value:    string(a),
			Label:    a.Label(),
			Selected: a == input.Activity,
		})
	}
	if state.Pending() {
		form.Disabled = true
		form.SubmitLabel = LoadingText
	}

	page := ForecastPage{
		Title:         brand + " Forecast",
		CSS:           r.theme.ForecastCSS(),
		Brand:         brand,
		ActivityLabel: input.Activity.Label(),
		Form:          form,
		Result:        BuildResultView(state, r.loc),
	}
	if state.Pending() {
		page.RefreshSeconds = refreshAfter
	}
	return page
}

// WriteWelcome renders the welcome page
func (r *Renderer) WriteWelcome(w io.Writer, page WelcomePage) error {
	if err := r.tmpl.ExecuteTemplate(w, "welcome", page); err != nil {
		return fmt.Errorf("render: welcome page: %w", err)
	}
	return nil
}

// WriteForecast renders the forecast page
func (r *Renderer) WriteForecast(w io.Writer, page ForecastPage) error {
	if err := r.tmpl.ExecuteTemplate(w, "forecast", page); err != nil {
		return fmt.Errorf("render: forecast page: %w", err)
	}
	return nil
}
