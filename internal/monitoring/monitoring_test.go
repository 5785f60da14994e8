package monitoring

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exclusioncheck/matching"
)

func TestObserveMatch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	result := matching.NewResult()
	result.OIGStatus = matching.StatusConfirmed
	m.ObserveMatch(matching.KindPerson, result)

	reviewed := matching.NewResult()
	reviewed.Review = &matching.ReviewItem{Source: matching.ReviewSourceSAMEntities}
	m.ObserveMatch(matching.KindEntity, reviewed)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchOutcome.WithLabelValues("person", "oig", "CONFIRMED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchOutcome.WithLabelValues("person", "sam", "NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewItems.WithLabelValues("entity", "SAM Entities")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ReviewItems.WithLabelValues("person", "OIG People")))
}

func TestObserveBuildAndRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBuild("success", 3*time.Second, map[string]int{"oig_people": 10, "sam_entities": 4})
	m.ObserveBuild("exists", 0, map[string]int{"oig_people": 99})
	m.ObserveRun("success", time.Second, map[string]int{"staff": 5, "vendors": 2})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("exists")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.BuildRows.WithLabelValues("oig_people")), "refused builds add no rows")
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ScreenedRecords.WithLabelValues("staff")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("success")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMatch(matching.KindPerson, matching.NewResult())
		m.ObserveBuild("success", time.Second, nil)
		m.ObserveRun("error", time.Second, nil)
	})
}

func TestHealthChecker(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	hc := NewHealthChecker("test")
	hc.RegisterComponent("cache", DirectoryCheck("cache", dir))

	result := hc.Check(context.Background())
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Equal(t, "test", result.Version)
	assert.Equal(t, HealthStatusHealthy, result.Components["cache"].Status)

	hc.RegisterComponent("runs", DirectoryCheck("runs", filepath.Join(dir, "missing")))
	hc.RegisterComponent("file", DirectoryCheck("file", file))
	result = hc.Check(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Components["runs"].Status)
	assert.Contains(t, result.Components["file"].Message, "not a directory")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "health probe files are removed")
}
