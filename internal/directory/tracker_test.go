package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_ReachableIsReservedUnionPresent(t *testing.T) {
	tr := NewTracker([]string{"rob", "kat"})

	assert.Equal(t, []string{"rob", "kat"}, tr.Reachable())

	tr.SetPresent([]string{"amy", "rob"})
	assert.Equal(t, []string{"rob", "kat", "amy"}, tr.Reachable())

	// leave event replaces the present set wholesale
	tr.SetPresent([]string{"amy"})
	assert.Equal(t, []string{"rob", "kat", "amy"}, tr.Reachable())

	tr.SetPresent(nil)
	assert.Equal(t, []string{"rob", "kat"}, tr.Reachable())
}

func TestTracker_IsReachable(t *testing.T) {
	tr := NewTracker([]string{"rob"})
	tr.SetPresent([]string{"amy"})

	assert.True(t, tr.IsReachable("rob"), "reserved is reachable while offline")
	assert.True(t, tr.IsReachable("amy"), "present is reachable")
	assert.False(t, tr.IsReachable("ghost"))
}

func TestTracker_IsOnline(t *testing.T) {
	tr := NewTracker([]string{"rob"})
	tr.SetPresent([]string{"amy"})

	assert.False(t, tr.IsOnline("rob"), "reserved but not connected")
	assert.True(t, tr.IsOnline("amy"))
}

func TestTracker_CanSend(t *testing.T) {
	tr := NewTracker([]string{"rob"})
	tr.SetPresent([]string{"amy"})

	tests := []struct {
		name   string
		target string
		viewer string
		want   bool
	}{
		{"reserved target", "rob", "alice", true},
		{"present target", "amy", "alice", true},
		{"self-send", "alice", "alice", true},
		{"unknown ghost", "unknown_ghost", "alice", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.CanSend(tt.target, tt.viewer))
		})
	}
}

func TestTracker_DropsEmptyAndDuplicateReserved(t *testing.T) {
	tr := NewTracker([]string{"rob", "", "rob", "kat"})
	assert.Equal(t, []string{"rob", "kat"}, tr.Reachable())
}
