package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kbukum/authkit/observability"
)

// InfrastructureInfo describes one piece of infrastructure the app opened.
type InfrastructureInfo struct {
	Name    string
	Details string
	Healthy bool
}

// RouteInfo is a registered HTTP route.
type RouteInfo struct {
	Method  string
	Path    string
	Handler string
}

// Summary collects what the app started and prints it once startup is done.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	routes          []RouteInfo
	checkers        []observability.HealthChecker
	out             io.Writer
}

// NewSummary creates an empty summary printed to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: os.Stdout}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure records an opened dependency, e.g. the database.
func (s *Summary) TrackInfrastructure(name, details string, healthy bool) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{Name: name, Details: details, Healthy: healthy})
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path, Handler: handler})
}

// TrackHealth adds checkers evaluated live when the summary is displayed.
func (s *Summary) TrackHealth(checkers ...observability.HealthChecker) {
	s.checkers = append(s.checkers, checkers...)
}

// Display prints the summary.
func (s *Summary) Display(ctx context.Context) {
	w := s.out
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n", s.serviceName, version, s.startupDuration.Seconds())

	if len(s.infrastructure) > 0 {
		fmt.Fprintf(w, "\n📊 Infrastructure\n")
		for i, inf := range s.infrastructure {
			fmt.Fprintf(w, "   %s %s %s: %s\n", treePrefix(i, len(s.infrastructure)), healthyIcon(inf.Healthy), inf.Name, inf.Details)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}

	if len(s.checkers) > 0 {
		sh := observability.Check(ctx, s.serviceName, s.version, s.checkers...)
		fmt.Fprintf(w, "\n🏥 Health (%s)\n", sh.Status)
		for i, h := range sh.Components {
			msg := ""
			if h.Message != "" {
				msg = " - " + h.Message
			}
			fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(sh.Components)), healthIcon(h.Status), h.Name, h.Status, msg)
		}
	}

	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthyIcon(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func healthIcon(status observability.HealthStatus) string {
	switch status {
	case observability.HealthStatusUp:
		return "✅"
	case observability.HealthStatusDegraded:
		return "⚠️"
	case observability.HealthStatusDown:
		return "❌"
	default:
		return "❓"
	}
}
