package domain

import "testing"

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{Status(""), false},
		{Status("done"), false},
		{Status("PENDING"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("Status(%q).Valid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPriorityValid(t *testing.T) {
	tests := []struct {
		priority Priority
		want     bool
	}{
		{PriorityLow, true},
		{PriorityMedium, true},
		{PriorityHigh, true},
		{PriorityCritical, true},
		{Priority(""), false},
		{Priority("urgent"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.Valid(); got != tt.want {
				t.Errorf("Priority(%q).Valid() = %v, want %v", tt.priority, got, tt.want)
			}
		})
	}
}

func TestToggled(t *testing.T) {
	// The toggle is binary: in_progress does not round-trip, it
	// collapses to completed like pending does.
	tests := []struct {
		name   string
		status Status
		want   Status
	}{
		{"pending completes", StatusPending, StatusCompleted},
		{"in_progress collapses to completed", StatusInProgress, StatusCompleted},
		{"completed reopens as pending", StatusCompleted, StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo := &Todo{Status: tt.status}
			if got := todo.Toggled(); got != tt.want {
				t.Errorf("Toggled() from %q = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}
