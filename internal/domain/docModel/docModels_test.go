package docModel

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to DocumentStatus
		want     bool
	}{
		{StatusPending, StatusUploaded, true},
		{StatusUploaded, StatusProcessing, true},
		{StatusUploaded, StatusFailed, true},
		{StatusProcessing, StatusIndexed, true},
		{StatusProcessing, StatusFailed, true},

		//no skipping ahead
		{StatusPending, StatusProcessing, false},
		{StatusPending, StatusIndexed, false},
		{StatusPending, StatusFailed, false},
		{StatusUploaded, StatusIndexed, false},

		//no going backwards
		{StatusUploaded, StatusPending, false},
		{StatusProcessing, StatusUploaded, false},

		//terminal states stay terminal
		{StatusIndexed, StatusProcessing, false},
		{StatusIndexed, StatusFailed, false},
		{StatusFailed, StatusUploaded, false},
		{StatusFailed, StatusIndexed, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []DocumentStatus{StatusPending, StatusUploaded, StatusProcessing, StatusIndexed, StatusFailed} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) got false", s)
		}
	}
	if ValidStatus("bogus") {
		t.Error("ValidStatus accepted an unknown status")
	}
}
