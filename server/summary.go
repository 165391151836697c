package server

import (
	"sort"
	"strings"
)

// systemPaths are the operational routes registered by RegisterHealth.
var systemPaths = map[string]bool{
	"/health":  true,
	"/version": true,
}

// Route is one registered route, for the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// Routes lists the registered routes, API routes first, sorted by path and method.
// Call it after all routes are registered.
func (s *Server) Routes() []Route {
	routes := s.engine.Routes()

	sort.Slice(routes, func(i, j int) bool {
		iSys := systemPaths[routes[i].Path]
		jSys := systemPaths[routes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})

	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		out = append(out, Route{Method: r.Method, Path: r.Path, Handler: formatHandlerName(r.Handler)})
	}
	return out
}

// formatHandlerName shortens gin's handler path:
// "github.com/kbukum/authkit/pipeline.(*Assembler).Guard-fm" becomes "Assembler.Guard".
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	// closures: "endpoint.Health.func1" -> "health"
	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				name = strings.ToLower(parts[i])
				break
			}
		}
	}

	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 && parts[0] == strings.ToLower(parts[0]) && parts[1] != "" {
		name = parts[1]
	}
	return name
}

// methodOrder returns a sort key for HTTP methods (GET first, DELETE last).
func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
