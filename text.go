package main

import "github.com/binilvincent/portfolio/internal/server"

var (
	Tagline = `Full-stack developer building with .NET, React and SQL.`

	AboutMe = `I enjoy turning everyday problems into clean, dependable software. Most of what I build
	starts on the backend with C# and ASP.NET Core and ends in a React interface people actually
	like using. Ask Nik, my assistant in the corner, anything about my work.`
)

func pageCopy() server.Page {
	return server.Page{
		Title:        "Binil Vincent | Portfolio",
		Tagline:      Tagline,
		AboutMe:      AboutMe,
		QuickReplies: server.DefaultQuickReplies(),
		Slides: []string{
			"/static/img/about-1.svg",
			"/static/img/about-2.svg",
			"/static/img/about-3.svg",
		},
	}
}
