package templates

import (
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

type LayoutProps struct {
	Title       string
	CurrentUser string
}

func NavbarComponent(props LayoutProps) g.Node {
	return Nav(Class("nav"),
		Div(Class("nav-left"),
			Div(Class("brand"), A(Href("/"), g.Text("Pressroom"))),
		),
		Div(Class("nav-links nav-right"),
			A(Href("/about"), g.Text("About")),
			A(Href("/contact"), g.Text("Contact")),
			g.If(props.CurrentUser == "",
				Div(
					A(Href("/login"), g.Text("Login")),
					A(Href("/register"), g.Text("Register")),
				),
			),
			g.If(props.CurrentUser != "",
				Div(Class("row"),
					Div(Class("col"), g.Textf("Logged in as %s", props.CurrentUser)),
					Div(Class("col"), A(Href("/logout"), g.Text("Logout"))),
				)),
		),
	)
}

func FooterComponent() g.Node {
	return Footer(Class("footer"),
		P(Class("small-print"),
			Small(g.Text("Posts marked as imported come from an external news feed.")),
		),
	)
}

func Layout(props LayoutProps, children ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				Link(Rel("stylesheet"), Href("/assets/css/main.css")),
				TitleEl(g.Text(props.Title)),
			),
			Body(
				Div(Class("container"),
					NavbarComponent(props),
					Main(
						g.Group(children),
					),
				),
				FooterComponent(),
			),
		),
	)
}

func AboutPage(props LayoutProps) g.Node {
	props.Title = "About"
	return Layout(props,
		H1(g.Text("About")),
		P(g.Text("Pressroom is a small blog that mixes hand-written posts with "+
			"stories pulled automatically from a news feed.")),
		P(g.Text("Registered readers can comment on any post. Authoring and "+
			"editing is reserved for the site admin.")),
	)
}

func ContactPage(props LayoutProps) g.Node {
	props.Title = "Contact"
	return Layout(props,
		H1(g.Text("Contact")),
		P(g.Text("Questions or takedown requests? Write to "),
			A(Href("mailto:editor@pressroom.example"), g.Text("editor@pressroom.example")),
			g.Text("."),
		),
	)
}
