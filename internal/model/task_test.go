package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskUrgency(t *testing.T) {
	due := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
	task := Task{DueDate: &due}

	cases := []struct {
		name    string
		now     time.Time
		overdue bool
		soon    bool
	}{
		{"three days ahead", time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC), false, false},
		{"day before", time.Date(2025, 10, 4, 9, 0, 0, 0, time.UTC), false, true},
		{"on the due day", time.Date(2025, 10, 5, 18, 0, 0, 0, time.UTC), false, true},
		{"day after", time.Date(2025, 10, 6, 0, 0, 1, 0, time.UTC), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overdue, task.Overdue(tc.now))
			assert.Equal(t, tc.soon, task.DueSoon(tc.now))
		})
	}

	assert.False(t, Task{}.Overdue(due.Add(72*time.Hour)))
	assert.False(t, Task{}.DueSoon(due))
}
