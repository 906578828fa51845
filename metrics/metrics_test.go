package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	Init(nil)
	first := RunsTotal
	Init(nil)
	assert.Same(t, first, RunsTotal)
	assert.NotNil(t, Handler())
}

func TestRecordersAreSafeAfterInit(t *testing.T) {
	Init(nil)
	ObserveRun("ok", time.Now())
	MarkCapabilityFailure("text")
	MarkDegraded("emotion")
	MarkPersistenceFailure()
	MarkSessionCreated()

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
