package views

import (
	"strconv"

	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/nfrund/carmasy/internal/dashboard"
)

// RootID is the id of the element every event response replaces.
const RootID = "dashboard"

// EventPath is the URL an htmx control posts to for the named event.
func EventPath(name dashboard.EventName) string {
	return "/dashboard/events/" + string(name)
}

// Dashboard renders the swappable root of the dashboard for snap. verr may be
// nil; when set, its messages appear under the matching inputs.
func Dashboard(snap dashboard.State, verr *dashboard.ValidationError) g.Node {
	return Div(
		ID(RootID),
		c.Classes{
			"dark": snap.IsDarkMode,
			"min-h-screen transition-colors duration-300": true,
		},
		Div(Class("bg-white dark:bg-gray-900 min-h-screen"),
			header(snap.IsDarkMode),
			Div(Class("container mx-auto p-6 space-y-8"),
				notifications(snap.Notifications),
				Div(Class("grid md:grid-cols-2 lg:grid-cols-3 gap-6"),
					counterCard(snap.Counter),
					registrationCard(snap, verr),
					techStackCard(),
				),
				Div(Class("grid md:grid-cols-2 gap-6"),
					featurePanel("htmx Features", []string{
						"Hypermedia-driven components",
						"Server-rendered fragments",
						"Inline validation errors",
						"Real-time updates over WebSockets",
					}),
					featurePanel("Tailwind CSS v4 Features", []string{
						"CSS-first configuration",
						"5x faster builds",
						"Built-in dark mode",
						"Custom property API",
					}),
				),
			),
			footer(),
		),
	)
}

// control posts the named event and swaps the dashboard root with the reply.
func control(name dashboard.EventName) g.Group {
	return g.Group{
		hx.Post(EventPath(name)),
		hx.Target("#" + RootID),
		hx.Swap("outerHTML"),
	}
}

func header(dark bool) g.Node {
	label := "🌙 Dark Mode"
	if dark {
		label = "🌞 Light Mode"
	}

	return Header(Class("bg-gradient-to-r from-blue-600 to-purple-600 dark:from-blue-800 dark:to-purple-800 text-white p-6 shadow-lg"),
		Div(Class("container mx-auto flex justify-between items-center"),
			Div(
				H1(Class("text-3xl font-bold tracking-tight"), g.Text("Carmasy Dashboard")),
				P(Class("text-blue-100 dark:text-blue-200 mt-1"), g.Text("Go + Echo + gomponents + htmx")),
			),
			Button(
				Type("button"),
				Class("px-4 py-2 text-sm bg-white/10 hover:bg-white/20 rounded-lg transition-colors"),
				control(dashboard.EventToggleDarkMode),
				g.Text(label),
			),
		),
	)
}

var kindClasses = map[dashboard.Kind]string{
	dashboard.KindSuccess: "bg-green-50 border-green-200 text-green-800 dark:bg-green-900/20 dark:border-green-800 dark:text-green-200",
	dashboard.KindInfo:    "bg-blue-50 border-blue-200 text-blue-800 dark:bg-blue-900/20 dark:border-blue-800 dark:text-blue-200",
	dashboard.KindWarning: "bg-yellow-50 border-yellow-200 text-yellow-800 dark:bg-yellow-900/20 dark:border-yellow-800 dark:text-yellow-200",
}

func notifications(items []dashboard.Notification) g.Node {
	if len(items) == 0 {
		return nil
	}

	return Div(ID("notifications"), Class("space-y-3"),
		g.Map(items, func(n dashboard.Notification) g.Node {
			return Div(
				Class("p-4 rounded-lg border cursor-pointer transition-all hover:shadow-md "+kindClasses[n.Kind]),
				Data("kind", string(n.Kind)),
				control(dashboard.EventDismissNotification),
				hx.Vals(`{"id":"`+strconv.FormatInt(n.ID, 10)+`"}`),
				g.Text(n.Message),
				Span(Class("float-right text-xs opacity-60"), g.Text("Click to dismiss")),
			)
		}),
	)
}

func card(title string, children ...g.Node) g.Node {
	return Div(Class("bg-white dark:bg-gray-800 rounded-lg shadow-lg border dark:border-gray-700 p-6"),
		H2(Class("text-xl font-bold mb-4 text-gray-900 dark:text-gray-100"), g.Text(title)),
		g.Group(children),
	)
}

func counterCard(counter int) g.Node {
	return card("Interactive Counter",
		Div(Class("text-center space-y-4"),
			Div(ID("counter"), Class("text-5xl font-bold text-blue-600 dark:text-blue-400"),
				g.Text(strconv.Itoa(counter)),
			),
			Div(Class("flex justify-center gap-3"),
				Button(Type("button"),
					Class("px-4 py-2 bg-red-500 hover:bg-red-600 text-white rounded-lg transition-colors"),
					control(dashboard.EventDecrement),
					g.Text("-1"),
				),
				Button(Type("button"),
					Class("px-4 py-2 bg-blue-500 hover:bg-blue-600 text-white rounded-lg transition-colors"),
					control(dashboard.EventIncrement),
					g.Text("+1"),
				),
			),
		),
	)
}

func registrationCard(snap dashboard.State, verr *dashboard.ValidationError) g.Node {
	return card("User Registration",
		Form(ID("registration-form"), Class("space-y-4"),
			Method("post"), Action(EventPath(dashboard.EventSave)),
			control(dashboard.EventSave),
			formField(dashboard.FieldName, "Name", "text", "Enter your name", snap.Name, verr),
			formField(dashboard.FieldEmail, "Email", "email", "Enter your email", snap.Email, verr),
			Button(Type("submit"),
				Class("w-full px-4 py-2 bg-blue-500 hover:bg-blue-600 text-white rounded-lg transition-colors"),
				g.Text("Save User"),
			),
		),
	)
}

// formField renders one bound input. Typing syncs the value to the session
// without re-rendering, so other controls keep what was typed.
func formField(field, label, inputType, placeholder, value string, verr *dashboard.ValidationError) g.Node {
	msg, failed := verr.Message(field)

	return Div(
		Label(For(field), Class("block text-sm font-medium text-gray-700 dark:text-gray-300 mb-1"), g.Text(label)),
		Input(
			ID(field), Name(field), Type(inputType), Placeholder(placeholder), Value(value),
			Class("w-full px-3 py-2 border border-gray-300 dark:border-gray-600 rounded-lg focus:ring-2 focus:ring-blue-500 focus:border-transparent dark:bg-gray-700 dark:text-white"),
			hx.Post(EventPath(dashboard.EventSetField)),
			hx.Trigger("input changed delay:300ms"),
			hx.Vals(`{"field":"`+field+`"}`),
			hx.Swap("none"),
		),
		g.If(failed,
			Span(Class("text-red-500 text-sm"), Data("error-for", field), g.Text(msg)),
		),
	)
}

type techEntry struct {
	name, version, badge string
}

var techStack = []techEntry{
	{"Go", "1.25", "bg-green-100 text-green-800 dark:bg-green-900 dark:text-green-200"},
	{"Echo", "v4.13", "bg-blue-100 text-blue-800 dark:bg-blue-900 dark:text-blue-200"},
	{"Tailwind CSS", "v4.1", "bg-cyan-100 text-cyan-800 dark:bg-cyan-900 dark:text-cyan-200"},
	{"Vite", "v7.3.1", "bg-purple-100 text-purple-800 dark:bg-purple-900 dark:text-purple-200"},
}

func techStackCard() g.Node {
	return card("Technology Stack",
		Div(Class("space-y-3"),
			g.Map(techStack, func(t techEntry) g.Node {
				return Div(Class("flex justify-between items-center"),
					Span(Class("text-gray-600 dark:text-gray-400"), g.Text(t.name)),
					Span(Class("px-2 py-1 rounded text-sm "+t.badge), g.Text(t.version)),
				)
			}),
		),
	)
}

func featurePanel(title string, features []string) g.Node {
	return card(title,
		Ul(Class("space-y-2 text-gray-600 dark:text-gray-400"),
			g.Map(features, func(f string) g.Node {
				return Li(Class("flex items-center gap-2"),
					Span(Class("text-green-500"), g.Text("✓")),
					g.Text(f),
				)
			}),
		),
	)
}
