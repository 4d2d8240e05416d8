package views

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/nfrund/carmasy/internal/dashboard"
	"github.com/nfrund/carmasy/internal/view"
)

const (
	htmxScript   = "https://unpkg.com/htmx.org@2.0.4"
	htmxWSScript = "https://unpkg.com/htmx-ext-ws@2.0.2"

	// WebSocketPath is where the page opens its live connection.
	WebSocketPath = "/ws"
)

// AssetResolver maps a logical build input to a URL.
type AssetResolver interface {
	URL(input string) string
}

// PageProps carries everything a full page render needs.
type PageProps struct {
	State  dashboard.State
	Errors *dashboard.ValidationError
	Assets AssetResolver
	Flash  view.FlashData
}

// Page renders the complete HTML document around the dashboard.
func Page(p PageProps) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:       "Carmasy Dashboard",
		Description: "Interactive dashboard demo",
		Language:    "en",
		Head: []g.Node{
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			stylesheets(p.Assets),
			Script(Src(htmxScript), Defer()),
			Script(Src(htmxWSScript), Defer()),
		},
		Body: []g.Node{
			hx.Ext("ws"),
			g.Attr("ws-connect", WebSocketPath),
			flashBanner(p.Flash),
			Dashboard(p.State, p.Errors),
			g.If(p.Assets != nil, Script(Type("module"), Src(assetURL(p.Assets, "js")))),
		},
	})
}

func stylesheets(assets AssetResolver) g.Node {
	if assets == nil {
		return nil
	}
	return g.Group{
		Link(Rel("stylesheet"), Href(assets.URL("critical"))),
		Link(Rel("stylesheet"), Href(assets.URL("app"))),
	}
}

func assetURL(assets AssetResolver, input string) string {
	if assets == nil {
		return ""
	}
	return assets.URL(input)
}

func flashBanner(f view.FlashData) g.Node {
	if f.Empty() {
		return nil
	}
	return Div(ID("flash"), Class("container mx-auto px-6 pt-4 space-y-2"),
		g.Map(f.Success, func(m string) g.Node {
			return Div(Class("p-3 rounded bg-green-100 text-green-800"), Role("status"), g.Text(m))
		}),
		g.Map(f.Error, func(m string) g.Node {
			return Div(Class("p-3 rounded bg-red-100 text-red-800"), Role("alert"), g.Text(m))
		}),
	)
}

func footer() g.Node {
	return Footer(Class("bg-gray-100 dark:bg-gray-800 text-center py-8 mt-12"),
		P(Class("text-gray-600 dark:text-gray-400"),
			g.Text("Built with ❤️ using a modern Go stack • "),
			Span(Class("font-semibold"), g.Text("Carmasy Dashboard Demo")),
		),
	)
}
