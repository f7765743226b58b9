package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "pending to reviewed", from: StatusPending, to: StatusReviewed, want: true},
		{name: "pending to approved skips review", from: StatusPending, to: StatusApproved, want: false},
		{name: "pending to rejected skips review", from: StatusPending, to: StatusRejected, want: false},
		{name: "reviewed to approved", from: StatusReviewed, to: StatusApproved, want: true},
		{name: "reviewed to rejected", from: StatusReviewed, to: StatusRejected, want: true},
		{name: "reviewed back to pending", from: StatusReviewed, to: StatusPending, want: false},
		{name: "approved is terminal", from: StatusApproved, to: StatusReviewed, want: false},
		{name: "rejected is terminal", from: StatusRejected, to: StatusReviewed, want: false},
		{name: "approved to rejected", from: StatusApproved, to: StatusRejected, want: false},
		{name: "unknown status", from: Status("lol"), to: StatusReviewed, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusReviewed.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, Status("lol").Terminal())
}

func TestSupportedFileType(t *testing.T) {
	assert.True(t, SupportedFileType("slides.pdf"))
	assert.True(t, SupportedFileType("slides.PPTX"))
	assert.True(t, SupportedFileType("report.doc"))
	assert.False(t, SupportedFileType("archive.zip"))
	assert.False(t, SupportedFileType("noextension"))
}
