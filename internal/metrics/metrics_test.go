package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCompletionCountsTokens(t *testing.T) {
	before := testutil.ToFloat64(CompletionTokens.WithLabelValues("fake-metrics", "input"))

	ObserveCompletion("fake-metrics", "outline", time.Now(), 120, 0)

	assert.Equal(t, before+120, testutil.ToFloat64(CompletionTokens.WithLabelValues("fake-metrics", "input")))
	assert.Zero(t, testutil.ToFloat64(CompletionTokens.WithLabelValues("fake-metrics", "output")))
}

func TestResult(t *testing.T) {
	assert.Equal(t, ResultOK, Result(nil))
	assert.Equal(t, ResultError, Result(errors.New("x")))
}
