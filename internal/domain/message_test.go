package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageList_ScanDefaultsToEmptyList(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"null column", nil},
		{"empty bytes", []byte{}},
		{"empty string", ""},
		{"json null", []byte("null")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l ImageList
			require.NoError(t, l.Scan(tt.value))
			assert.NotNil(t, l)
			assert.Empty(t, l)
		})
	}
}

func TestImageList_ScanDecodesURLs(t *testing.T) {
	var l ImageList
	require.NoError(t, l.Scan([]byte(`["https://cdn/a.png","https://cdn/b.png"]`)))
	assert.Equal(t, ImageList{"https://cdn/a.png", "https://cdn/b.png"}, l)
}

func TestImageList_ValueRoundTrip(t *testing.T) {
	v, err := ImageList{"https://cdn/a.png"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["https://cdn/a.png"]`, v)

	// nil marshals as an empty array, not JSON null
	v, err = ImageList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestIsParty(t *testing.T) {
	m := &Message{Sender: "alice", Recipient: "bob"}

	assert.True(t, m.IsParty("alice"))
	assert.True(t, m.IsParty("bob"))
	assert.False(t, m.IsParty("mallory"))
	assert.False(t, m.IsParty(""))
}

func TestToResponse_CreatedAtIsISO8601UTC(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	m := &Message{
		ID:        "m1",
		Sender:    "alice",
		Recipient: "bob",
		CreatedAt: time.Date(2026, 3, 5, 23, 30, 0, 0, loc),
	}

	resp := m.ToResponse()
	assert.Equal(t, "2026-03-05T14:30:00Z", resp.CreatedAt)
}

func TestToResponse_NilImagesBecomeEmptyList(t *testing.T) {
	resp := (&Message{ID: "m1"}).ToResponse()
	require.NotNil(t, resp.Images)
	assert.Empty(t, resp.Images)
}
