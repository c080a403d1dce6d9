package render

import (
	"fmt"
	"html/template"
	"strings"
)

// Palette is the colour set a theme is built from
type Palette struct {
	Background string
	Surface    string
	Border     string
	Text       string
	Muted      string
	Accent     string
	AccentText string
	Good       string
	Caution    string
	Bad        string
	Error      string
}

// WelcomeStyle styles the welcome gate only
type WelcomeStyle struct {
	Backdrop   string
	TitleSize  string
	ButtonSize string
}

// ForecastStyle styles the forecast form and results only
type ForecastStyle struct {
	CardMaxWidth string
	CardBlur     string
	GridMinWidth string
	Radius       string
}

// Theme bundles a palette with the per-view styles
type Theme struct {
	Name     string
	Palette  Palette
	Welcome  WelcomeStyle
	Forecast ForecastStyle
}

// NimbusTheme is the dark glass look with a golden accent
var NimbusTheme = Theme{
	Name: "nimbus",
	Palette: Palette{
		Background: "#1a202c",
		Surface:    "rgba(45, 55, 72, 0.55)",
		Border:     "rgba(255, 255, 255, 0.18)",
		Text:       "#f7fafc",
		Muted:      "#cbd5e0",
		Accent:     "#f6e05e",
		AccentText: "#1a202c",
		Good:       "#38b2ac",
		Caution:    "#f6e05e",
		Bad:        "#f56565",
		Error:      "#feb2b2",
	},
	Welcome: WelcomeStyle{
		Backdrop:   "linear-gradient(135deg, #1a202c 0%, #2d3748 100%)",
		TitleSize:  "4rem",
		ButtonSize: "1.25rem",
	},
	Forecast: ForecastStyle{
		CardMaxWidth: "1200px",
		CardBlur:     "5px",
		GridMinWidth: "300px",
		Radius:       "15px",
	},
}

// DaylightTheme is a light variant for bright screens
var DaylightTheme = Theme{
	Name: "daylight",
	Palette: Palette{
		Background: "#ebf8ff",
		Surface:    "rgba(255, 255, 255, 0.85)",
		Border:     "rgba(44, 82, 130, 0.2)",
		Text:       "#1a365d",
		Muted:      "#4a5568",
		Accent:     "#3182ce",
		AccentText: "#ffffff",
		Good:       "#2f855a",
		Caution:    "#b7791f",
		Bad:        "#c53030",
		Error:      "#c53030",
	},
	Welcome: WelcomeStyle{
		Backdrop:   "linear-gradient(135deg, #bee3f8 0%, #ebf8ff 100%)",
		TitleSize:  "4rem",
		ButtonSize: "1.25rem",
	},
	Forecast: ForecastStyle{
		CardMaxWidth: "1100px",
		CardBlur:     "0px",
		GridMinWidth: "280px",
		Radius:       "12px",
	},
}

var themes = map[string]Theme{
	NimbusTheme.Name:   NimbusTheme,
	DaylightTheme.Name: DaylightTheme,
}

// ThemeByName looks up a built-in theme
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// WelcomeCSS renders the stylesheet scoped to the welcome view
func (t Theme) WelcomeCSS() template.CSS {
	p, w := t.Palette, t.Welcome
	var b strings.Builder
	fmt.Fprintf(&b, "body.welcome{margin:0;min-height:100vh;display:flex;flex-direction:column;align-items:center;justify-content:center;background:%s;color:%s;font-family:system-ui,sans-serif;}", w.Backdrop, p.Text)
	fmt.Fprintf(&b, ".welcome .title{font-size:%s;letter-spacing:0.3em;margin:0;}", w.TitleSize)
	fmt.Fprintf(&b, ".welcome .tagline{color:%s;margin:1rem 0 2rem;}", p.Muted)
	fmt.Fprintf(&b, ".welcome button{font-size:%s;padding:0.8rem 2.5rem;border:none;border-radius:999px;background:%s;color:%s;cursor:pointer;}", w.ButtonSize, p.Accent, p.AccentText)
	return template.CSS(b.String())
}

// ForecastCSS renders the stylesheet scoped to the forecast view
func (t Theme) ForecastCSS() template.CSS {
	p, f := t.Palette, t.Forecast
	var b strings.Builder
	fmt.Fprintf(&b, "body.forecast{margin:0;min-height:100vh;display:flex;flex-direction:column;align-items:center;background:%s;color:%s;font-family:system-ui,sans-serif;}", p.Background, p.Text)
	fmt.Fprintf(&b, ".forecast .card{width:100%%;max-width:%s;margin:2rem auto;padding:2rem;box-sizing:border-box;background:%s;border:1px solid %s;border-radius:%s;backdrop-filter:blur(%s);}", f.CardMaxWidth, p.Surface, p.Border, f.Radius, f.CardBlur)
	fmt.Fprintf(&b, ".forecast .brand{text-align:center;letter-spacing:0.2em;color:%s;}", p.Accent)
	b.WriteString(".forecast form{display:flex;flex-direction:column;gap:1rem;}.forecast .group{display:flex;flex-direction:column;gap:0.4rem;}")
	fmt.Fprintf(&b, ".forecast input,.forecast select{padding:0.75rem;border-radius:8px;border:1px solid %s;background:transparent;color:%s;}", p.Border, p.Text)
	fmt.Fprintf(&b, ".forecast button{padding:0.9rem;border:none;border-radius:8px;background:%s;color:%s;font-weight:bold;cursor:pointer;}", p.Accent, p.AccentText)
	b.WriteString(".forecast button:disabled{opacity:0.6;cursor:not-allowed;}")
	fmt.Fprintf(&b, ".forecast .grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(%s,1fr));gap:15px;margin-top:2rem;}", f.GridMinWidth)
	fmt.Fprintf(&b, ".forecast .box{padding:1.25rem;border-radius:%s;border:1px solid %s;text-align:center;}", f.Radius, p.Border)
	fmt.Fprintf(&b, ".forecast .box.highlight,.forecast .scout{border:2px solid %s;}", p.Accent)
	b.WriteString(".forecast .full{grid-column:1/-1;}.forecast .box-title{font-size:0.8rem;text-transform:uppercase;opacity:0.8;}.forecast .box-value{font-size:1.6rem;margin-top:0.5rem;}")
	fmt.Fprintf(&b, ".forecast .row{display:flex;justify-content:space-between;padding:0.4rem 0;border-bottom:1px solid %s;}", p.Border)
	fmt.Fprintf(&b, ".forecast .row.top{color:%s;font-weight:bold;}", p.Accent)
	fmt.Fprintf(&b, ".forecast .tone-good{color:%s;}.forecast .tone-caution{color:%s;}.forecast .tone-bad{color:%s;}.forecast .tone-neutral{color:%s;}", p.Good, p.Caution, p.Bad, p.Muted)
	fmt.Fprintf(&b, ".forecast .error,.forecast .field-error{color:%s;text-align:center;}.forecast .loading{text-align:center;color:%s;}", p.Error, p.Muted)
	return template.CSS(b.String())
}
