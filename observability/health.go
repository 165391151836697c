package observability

import "context"

// HealthStatus is the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes one component.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth is the overall health of a service and its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker is implemented by components that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) Health

// CheckHealth implements HealthChecker.
func (f HealthCheckerFunc) CheckHealth(ctx context.Context) Health { return f(ctx) }

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent adds a component result and degrades the overall status if needed.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case HealthStatusDown:
		sh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if sh.Status != HealthStatusDown {
			sh.Status = HealthStatusDegraded
		}
	}
}

// Check runs every checker and aggregates the result.
func Check(ctx context.Context, service, version string, checkers ...HealthChecker) *ServiceHealth {
	sh := NewServiceHealth(service, version)
	for _, c := range checkers {
		sh.AddComponent(c.CheckHealth(ctx))
	}
	return sh
}

// StoreExistence reports a store as up when its schema exists, degraded when
// it is reachable but unprovisioned, and down when the check fails.
func StoreExistence(name string, exists func(ctx context.Context) (bool, error)) HealthChecker {
	return HealthCheckerFunc(func(ctx context.Context) Health {
		ok, err := exists(ctx)
		switch {
		case err != nil:
			return Health{Name: name, Status: HealthStatusDown, Message: err.Error()}
		case !ok:
			return Health{Name: name, Status: HealthStatusDegraded, Message: "store not initialized"}
		default:
			return Health{Name: name, Status: HealthStatusUp}
		}
	})
}
