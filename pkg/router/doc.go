// Package router implements the route table and matcher.
//
// A Plan is an ordered list of routes. Each route pairs a regular expression
// with the loaders of the modules that serve it: layouts first, then the
// route module. Matching is first-wins in plan order, so plans are built with
// the most specific routes first (see SortBySpecificity).
//
// # File Structure Convention
//
// Plans are usually generated by scanning a routes directory:
//
//	app/routes/
//	├── index.go             → /
//	├── layout.go            → layout for every route
//	├── about.go             → /about
//	├── blog/
//	│   ├── layout.go        → layout for /blog/*
//	│   ├── menu.json        → menu for /blog/
//	│   └── [slug].go        → /blog/[slug]
//	├── docs/
//	│   └── [...path].go     → /docs/[...path]
//	└── api/
//	    └── health.go        → /api/health (endpoint)
//
// Dynamic segments use brackets or the Go-friendly underscore form:
//
//	[id]       _id_       → one segment, captured as "id"
//	[...path]  _path___   → the rest of the path, "/" included
//
// A file that declares Page is a page route. A file that declares only
// request handlers (OnGet, OnPost, ..., OnRequest) is an endpoint route.
//
// # Usage
//
//	m, err := router.NewScanner("app/routes").Scan()
//	plan, err := router.Bind(m, registry)
//	r := router.New(plan, router.WithCacheSize(1024))
//
//	match, ok := r.Match("/blog/hello")
//	if ok {
//	    // match.Params["slug"] == "hello"
//	    loaded, err := r.LoadContent(ctx, match)
//	}
package router
