package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketStatus(t *testing.T) {
	for _, s := range AllStatuses {
		got, err := NewTicketStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, bad := range []string{"", "new", "pending", "OPEN", "reopened"} {
		_, err := NewTicketStatus(bad)
		assert.Error(t, err, bad)
	}
}

func TestTicketStatus_IsSettled(t *testing.T) {
	assert.False(t, StatusOpen.IsSettled())
	assert.False(t, StatusInProgress.IsSettled())
	assert.True(t, StatusResolved.IsSettled())
	assert.True(t, StatusClosed.IsSettled())
}

func TestNewPriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"", PriorityNormal, false},
		{"low", PriorityLow, false},
		{"normal", PriorityNormal, false},
		{"high", PriorityHigh, false},
		{"urgent", PriorityUrgent, false},
		{"medium", "", true},
		{"Urgent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewPriority(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewVisibility(t *testing.T) {
	v, err := NewVisibility("")
	require.NoError(t, err)
	assert.Equal(t, VisibilityPublic, v)

	v, err = NewVisibility("internal")
	require.NoError(t, err)
	assert.True(t, v.IsInternal())

	_, err = NewVisibility("private")
	assert.Error(t, err)
}

func TestNewBodyFormat(t *testing.T) {
	f, err := NewBodyFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPlain, f)

	f, err = NewBodyFormat("markdown")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = NewBodyFormat("rtf")
	assert.Error(t, err)
}

func TestNewKind(t *testing.T) {
	k, err := NewKind("")
	require.NoError(t, err)
	assert.Equal(t, KindSupport, k)

	k, err = NewKind("doubt")
	require.NoError(t, err)
	assert.Equal(t, KindDoubt, k)

	_, err = NewKind("question")
	assert.Error(t, err)
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("   ")
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, c)

	c, err = NewCategory("  course ")
	require.NoError(t, err)
	assert.Equal(t, Category("course"), c)

	c, err = NewCategory(strings.Repeat("é", MaxCategoryLength))
	require.NoError(t, err)
	assert.Len(t, []rune(c.String()), MaxCategoryLength)

	_, err = NewCategory(strings.Repeat("x", MaxCategoryLength+1))
	assert.Error(t, err)
}
