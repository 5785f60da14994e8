package monitoring

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"
)

// HealthStatus is the health of one component or of the whole service.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth is the result of one component check.
type ComponentHealth struct {
	Name      string        `json:"name"`
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Latency   time.Duration `json:"latency,omitempty"`
}

// HealthCheckResult aggregates every registered component.
type HealthCheckResult struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     time.Duration              `json:"uptime"`
	Version    string                     `json:"version"`
	Components map[string]ComponentHealth `json:"components"`
	Goroutines int                        `json:"goroutines"`
}

// HealthCheckFunc checks one component.
type HealthCheckFunc func(ctx context.Context) ComponentHealth

// HealthChecker runs registered component checks.
type HealthChecker struct {
	mu         sync.RWMutex
	components map[string]HealthCheckFunc
	startTime  time.Time
	version    string
}

// NewHealthChecker creates a checker reporting version.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		components: make(map[string]HealthCheckFunc),
		startTime:  time.Now(),
		version:    version,
	}
}

// RegisterComponent adds a named check.
func (hc *HealthChecker) RegisterComponent(name string, checkFunc HealthCheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.components[name] = checkFunc
}

// Check runs every registered check. One unhealthy component makes the
// service unhealthy; a degraded one degrades it.
func (hc *HealthChecker) Check(ctx context.Context) HealthCheckResult {
	hc.mu.RLock()
	names := make([]string, 0, len(hc.components))
	for name := range hc.components {
		names = append(names, name)
	}
	checks := make(map[string]HealthCheckFunc, len(hc.components))
	for name, fn := range hc.components {
		checks[name] = fn
	}
	hc.mu.RUnlock()
	sort.Strings(names)

	components := make(map[string]ComponentHealth, len(names))
	overallStatus := HealthStatusHealthy

	for _, name := range names {
		componentHealth := checks[name](ctx)
		if componentHealth.Name == "" {
			componentHealth.Name = name
		}
		components[name] = componentHealth
		if componentHealth.Status == HealthStatusUnhealthy {
			overallStatus = HealthStatusUnhealthy
		} else if componentHealth.Status == HealthStatusDegraded && overallStatus == HealthStatusHealthy {
			overallStatus = HealthStatusDegraded
		}
	}

	return HealthCheckResult{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Uptime:     time.Since(hc.startTime),
		Version:    hc.version,
		Components: components,
		Goroutines: runtime.NumGoroutine(),
	}
}

// DirectoryCheck reports a directory unhealthy when it is missing or not a
// directory, and degraded when it cannot be written.
func DirectoryCheck(name, dir string) HealthCheckFunc {
	return func(ctx context.Context) ComponentHealth {
		start := time.Now()
		health := ComponentHealth{Name: name, Status: HealthStatusHealthy, Message: dir}

		info, err := os.Stat(dir)
		switch {
		case err != nil:
			health.Status = HealthStatusUnhealthy
			health.Message = fmt.Sprintf("directory error: %v", err)
		case !info.IsDir():
			health.Status = HealthStatusUnhealthy
			health.Message = fmt.Sprintf("%s is not a directory", dir)
		default:
			probe, err := os.CreateTemp(dir, ".health-*")
			if err != nil {
				health.Status = HealthStatusDegraded
				health.Message = fmt.Sprintf("directory not writable: %v", err)
			} else {
				probe.Close()
				os.Remove(probe.Name())
			}
		}

		health.Timestamp = time.Now()
		health.Latency = time.Since(start)
		return health
	}
}
