package av

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerLifecycle(t *testing.T) {
	var r Runner
	assert.False(t, r.IsRunning())
	assert.True(t, r.Stop(time.Second)) // stop before start is a no-op

	started := make(chan struct{})
	ok := r.Start(func(quit <-chan struct{}) {
		close(started)
		<-quit
	})
	require.True(t, ok)
	<-started
	assert.True(t, r.IsRunning())
	assert.False(t, r.Start(func(<-chan struct{}) {})) // one loop at a time

	assert.True(t, r.Stop(time.Second))
	assert.False(t, r.IsRunning())
	assert.True(t, r.Stop(time.Second)) // idempotent
}

func TestRunnerRestartAfterLoopReturns(t *testing.T) {
	var r Runner
	require.True(t, r.Start(func(<-chan struct{}) {})) // returns on its own
	require.Eventually(t, func() bool { return !r.IsRunning() }, time.Second, time.Millisecond)

	require.True(t, r.Start(func(quit <-chan struct{}) { <-quit }))
	assert.True(t, r.IsRunning())
	assert.True(t, r.Stop(time.Second))
}

func TestRunnerStopTimeout(t *testing.T) {
	var r Runner
	release := make(chan struct{})
	require.True(t, r.Start(func(<-chan struct{}) { <-release })) // ignores quit

	assert.False(t, r.Stop(10*time.Millisecond))
	assert.False(t, r.Start(func(<-chan struct{}) {})) // still draining

	close(release)
	require.Eventually(t, func() bool {
		return r.Start(func(quit <-chan struct{}) { <-quit })
	}, time.Second, time.Millisecond)
	assert.True(t, r.Stop(time.Second))
}
