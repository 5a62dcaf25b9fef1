package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrPanic(t *testing.T) {
	t.Run("empty_panics", func(t *testing.T) {
		assert.PanicsWithValue(t, "path is required", func() {
			StrPanic("", "path is required")
		})
	})
	t.Run("non_empty_returns_value", func(t *testing.T) {
		require.Equal(t, "/usr/bin/worker", StrPanic("/usr/bin/worker", "path is required"))
	})
}

func TestNilPanic(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{name: "nil_interface", v: nil},
		{name: "nil_slice", v: []byte(nil)},
		{name: "nil_map", v: map[string]int(nil)},
		{name: "nil_pointer", v: (*int)(nil)},
		{name: "nil_func", v: (func())(nil)},
		{name: "nil_chan", v: (chan int)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name+"_panics", func(t *testing.T) {
			assert.PanicsWithValue(t, "dep is required", func() {
				NilPanic(tt.v, "dep is required")
			})
		})
	}

	t.Run("non_nil_returns_value", func(t *testing.T) {
		got := NilPanic([]byte("ok"), "slice is required")
		require.Equal(t, []byte("ok"), got)
	})
	t.Run("zero_int_is_not_nil", func(t *testing.T) {
		require.Equal(t, 0, NilPanic(0, "int is required"))
	})
}
