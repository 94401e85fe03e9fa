package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ClientFactory creates a DVRClient instance and returns a cleanup function.
type ClientFactory func() (DVRClient, func())

// RunDVRClientContractTests runs the contract suite against a DVRClient implementation.
// The factory must return a client holding at least one record of each family.
func RunDVRClientContractTests(t *testing.T, factory ClientFactory) {
	t.Run("Ping", func(t *testing.T) { testPing(t, factory) })
	t.Run("Lists", func(t *testing.T) { testLists(t, factory) })
	t.Run("ContextCancellation", func(t *testing.T) { testContextCancellation(t, factory) })
}

func testPing(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, client.Ping(ctx))
}

func testLists(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()
	ctx := context.Background()

	recs, err := client.GetRecordings(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, r := range recs {
		assert.NotEmpty(t, r.ID)
		assert.False(t, r.EndDate.Before(r.StartDate), "recording %s ends before it starts", r.ID)
	}

	timers, err := client.GetTimers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, timers)
	for _, tm := range timers {
		assert.NotEmpty(t, tm.ID)
		assert.GreaterOrEqual(t, tm.PrePaddingSeconds, 0)
		assert.GreaterOrEqual(t, tm.PostPaddingSeconds, 0)
	}

	series, err := client.GetSeriesTimers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, series)
	for _, s := range series {
		assert.NotEmpty(t, s.ID)
		assert.NotNil(t, s.Days)
	}
}

func testContextCancellation(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetRecordings(ctx)
	assert.Error(t, err, "GetRecordings should fail on a cancelled context")
	_, err = client.GetTimers(ctx)
	assert.Error(t, err, "GetTimers should fail on a cancelled context")
}
