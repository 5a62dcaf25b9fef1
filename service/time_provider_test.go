package service

import (
	"testing"
	"time"

	"mygreyhound/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeProvider_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "service.time_provider.go: now is required", func() {
		NewTimeProvider(nil)
	})
}

func TestTimeProvider_Now(t *testing.T) {
	fixed := helpers.TestNow()
	tp := NewTimeProvider(func() time.Time { return fixed })
	require.NotNil(t, tp)
	assert.Equal(t, fixed, tp.Now())
}

func TestTimeProvider_Now_CalledEachTime(t *testing.T) {
	calls := 0
	tp := NewTimeProvider(func() time.Time {
		calls++
		return helpers.TestNow().Add(time.Duration(calls) * time.Second)
	})
	first := tp.Now()
	second := tp.Now()
	assert.Equal(t, 2, calls)
	assert.Equal(t, time.Second, second.Sub(first))
}
