package gamification

import "testing"

func TestLevel(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{1000, 11},
		{-5, 1},
	}
	for _, tc := range cases {
		if got := Level(tc.xp); got != tc.want {
			t.Errorf("Level(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelMonotonic(t *testing.T) {
	prev := Level(0)
	for xp := 1; xp <= 5000; xp++ {
		cur := Level(xp)
		if cur < prev {
			t.Fatalf("Level decreased at xp=%d: %d -> %d", xp, prev, cur)
		}
		prev = cur
	}
}

func TestXPIntoAndToNextSumTo100(t *testing.T) {
	for _, xp := range []int{0, 1, 50, 99, 100, 101, 250, 999, 12345} {
		into := XPIntoLevel(xp)
		next := XPToNextLevel(xp)
		if into+next != 100 {
			t.Errorf("xp=%d: XPIntoLevel=%d + XPToNextLevel=%d != 100", xp, into, next)
		}
		if into < 0 || next < 0 {
			t.Errorf("xp=%d: negative component into=%d next=%d", xp, into, next)
		}
	}
}

func TestCappedLevel(t *testing.T) {
	if got := CappedLevel(100000, 100); got != 100 {
		t.Errorf("CappedLevel(100000, 100) = %d, want 100", got)
	}
	if got := CappedLevel(250, 0); got != 3 {
		t.Errorf("CappedLevel(250, 0) = %d, want 3 (no cap)", got)
	}
	if got := CappedLevel(250, 100); got != 3 {
		t.Errorf("CappedLevel(250, 100) = %d, want 3", got)
	}
}
