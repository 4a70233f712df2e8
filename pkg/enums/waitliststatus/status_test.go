package waitliststatus

import "testing"

func TestCanTransition(t *testing.T) {
	s := Statuses
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "waitingToNotified", from: s.Waiting, to: s.Notified, want: true},
		{name: "notifiedToConfirmed", from: s.Notified, to: s.Confirmed, want: true},
		{name: "waitingToConfirmed", from: s.Waiting, to: s.Confirmed, want: true},
		{name: "waitingToExpired", from: s.Waiting, to: s.Expired, want: true},
		{name: "notifiedToCancelled", from: s.Notified, to: s.Cancelled, want: true},
		{name: "notifiedBackToWaiting", from: s.Notified, to: s.Waiting, want: false},
		{name: "confirmedToCancelled", from: s.Confirmed, to: s.Cancelled, want: false},
		{name: "expiredToWaiting", from: s.Expired, to: s.Waiting, want: false},
		{name: "cancelledToConfirmed", from: s.Cancelled, to: s.Confirmed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from.Name, tt.to.Name, got, tt.want)
			}
		})
	}
}

func TestCanConvert(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{name: "waiting", status: Statuses.Waiting, want: true},
		{name: "notified", status: Statuses.Notified, want: true},
		{name: "confirmed", status: Statuses.Confirmed, want: false},
		{name: "expired", status: Statuses.Expired, want: false},
		{name: "cancelled", status: Statuses.Cancelled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanConvert(tt.status); got != tt.want {
				t.Errorf("CanConvert(%q) = %v, want %v", tt.status.Name, got, tt.want)
			}
		})
	}
}

func TestByName(t *testing.T) {
	for _, s := range All {
		got := ByName(s.Name)
		if got == nil || *got != s {
			t.Errorf("ByName(%q) = %v, want %v", s.Name, got, s)
		}
	}
	if got := ByName("notifié"); got == nil || *got != Statuses.Notified {
		t.Errorf("ByName(%q) = %v, want %v", "notifié", got, Statuses.Notified)
	}
}
