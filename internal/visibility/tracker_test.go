package visibility

import "testing"

func TestObserve(t *testing.T) {
	tests := []struct {
		name     string
		trailing int
		cursor   int
		total    int
		want     bool
	}{
		{"far from end", 5, 0, 20, false},
		{"just outside window", 5, 14, 20, false},
		{"window edge", 5, 15, 20, true},
		{"last item", 5, 19, 20, true},
		{"tiny feed always triggers", 5, 0, 4, true},
		{"single item", 5, 0, 1, true},
		{"empty feed", 5, 0, 0, false},
		{"negative cursor", 5, -1, 20, false},
		{"cursor past end", 5, 20, 20, false},
		{"custom window outside", 2, 17, 20, false},
		{"custom window inside", 2, 18, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.trailing)
			if got := tr.Observe(tt.cursor, tt.total); got != tt.want {
				t.Errorf("Observe(%d, %d) with trailing %d = %v, want %v",
					tt.cursor, tt.total, tt.trailing, got, tt.want)
			}
		})
	}
}

func TestDefaultTrailing(t *testing.T) {
	for _, bad := range []int{0, -3} {
		if got := New(bad).Trailing(); got != DefaultTrailing {
			t.Errorf("New(%d).Trailing() = %d, want %d", bad, got, DefaultTrailing)
		}
	}
}

func TestObserveIsStateless(t *testing.T) {
	tr := New(5)
	// The same position answers the same way no matter the call history.
	tr.Observe(19, 20)
	tr.Observe(0, 20)
	if !tr.Observe(19, 20) {
		t.Error("repeat Observe at end of feed should still trigger")
	}
	if tr.Observe(0, 20) {
		t.Error("repeat Observe far from end should still not trigger")
	}
}
