package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/fxsim/sizing"
)

func TestObserveStep(t *testing.T) {
	t.Parallel()

	s := NewSet()

	s.ObserveStep(sizing.Decision{Allowed: true, Multiplier: 0.8, Final: 8000})
	s.ObserveStep(sizing.Decision{Allowed: false, Multiplier: 0.05, Final: 0})

	assert.Equal(t, 2.0, testutil.ToFloat64(s.Steps))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Blocked))
	assert.Equal(t, 0.05, testutil.ToFloat64(s.Composite))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.FinalSize))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	s := NewSet()
	s.ObserveStep(sizing.Decision{Allowed: true, Multiplier: 1.0, Final: 10000})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "fxsim_steps_total 1")
}

func TestIndependentSets(t *testing.T) {
	t.Parallel()

	a := NewSet()
	b := NewSet()
	a.Steps.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Steps))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Steps))
}
