package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"just inside bottom-right", 29, 29, true},
		{"right edge (exclusive)", 30, 15, false},
		{"bottom edge (exclusive)", 15, 30, false},
		{"outside left", 5, 15, false},
		{"outside top", 15, 5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 80, 24)
	inner := outer.Centered(30, 10)

	if inner != NewRect(25, 7, 30, 10) {
		t.Errorf("Centered(30, 10) = %+v", inner)
	}
	if x, y := inner.Center(); x != 40 || y != 12 {
		t.Errorf("Center() = (%d, %d), expected (40, 12)", x, y)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		val, n, expected int
	}{
		{0, 7, 0},
		{6, 7, 6},
		{7, 7, 0},
		{-1, 7, 6},
		{-8, 7, 6},
		{15, 7, 1},
	}

	for _, tc := range tests {
		if got := Wrap(tc.val, tc.n); got != tc.expected {
			t.Errorf("Wrap(%d, %d) = %d, expected %d", tc.val, tc.n, got, tc.expected)
		}
	}
}

func TestInputFrame(t *testing.T) {
	f := FrameOf(ActionLeft, ActionDrop)
	if !f.Has(ActionLeft) || !f.Has(ActionDrop) {
		t.Error("FrameOf should set every given action")
	}
	if f.Has(ActionRight) || f.Empty() {
		t.Error("unexpected frame contents")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("frame should be empty after Clear")
	}

	var zero InputFrame
	if zero.Has(ActionDrop) || !zero.Empty() {
		t.Error("zero frame should report nothing")
	}
	zero.Set(ActionPause)
	if !zero.Has(ActionPause) {
		t.Error("Set on zero frame should allocate")
	}
}
