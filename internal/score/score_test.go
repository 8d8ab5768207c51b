package score

import "testing"

func TestClamp_WithinBounds(t *testing.T) {
	if got := Clamp(42.5); got != 42.5 {
		t.Errorf("Clamp(42.5) = %v, want 42.5", got)
	}
}

func TestClamp_Negative(t *testing.T) {
	if got := Clamp(-3); got != 0 {
		t.Errorf("Clamp(-3) = %v, want 0", got)
	}
}

func TestClamp_AboveMax(t *testing.T) {
	if got := Clamp(150); got != 100 {
		t.Errorf("Clamp(150) = %v, want 100", got)
	}
}

func TestRound1(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{96.04, 96.0},
		{96.05, 96.1},
		{0, 0},
		{99.99, 100.0},
	}
	for _, c := range cases {
		if got := Round1(c.in); got != c.want {
			t.Errorf("Round1(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTotal_WorkedExample(t *testing.T) {
	// 0.4·90 + 0.3·100 + 0.2·100 + 0.1·100 = 96.0
	got := Total(
		Weighted{Value: 90, Weight: 0.4},
		Weighted{Value: 100, Weight: 0.3},
		Weighted{Value: 100, Weight: 0.2},
		Weighted{Value: 100, Weight: 0.1},
	)
	if got != 96.0 {
		t.Errorf("Total = %v, want 96.0", got)
	}
}

func TestTotal_ClampsOverflow(t *testing.T) {
	got := Total(Weighted{Value: 200, Weight: 1.0})
	if got != 100.0 {
		t.Errorf("Total with overflowing component = %v, want 100.0", got)
	}
}
