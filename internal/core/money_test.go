package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestSplitEqually(t *testing.T) {
	cases := []struct {
		total int64
		n     int
		want  []int64
	}{
		{10000, 2, []int64{5000, 5000}},
		{10000, 3, []int64{3334, 3333, 3333}},
		{1, 3, []int64{1, 0, 0}},
		{101, 2, []int64{51, 50}},
	}
	for _, tc := range cases {
		got := SplitEqually(Cents(tc.total), tc.n)
		if len(got) != len(tc.want) {
			t.Fatalf("SplitEqually(%d, %d) returned %d shares", tc.total, tc.n, len(got))
		}
		var sum int64
		for i, s := range got {
			if s.Cents != tc.want[i] {
				t.Fatalf("SplitEqually(%d, %d)[%d] = %d, want %d", tc.total, tc.n, i, s.Cents, tc.want[i])
			}
			sum += s.Cents
		}
		if sum != tc.total {
			t.Fatalf("shares sum to %d, want %d", sum, tc.total)
		}
	}
	if SplitEqually(Cents(100), 0) != nil {
		t.Fatal("expected nil for zero participants")
	}
}

func TestMoneyHalves(t *testing.T) {
	cases := []struct {
		in     int64
		first  int64
		second int64
	}{
		{5000, 2500, 2500},
		{101, 51, 50},
		{1, 1, 0},
		{0, 0, 0},
	}
	for _, tc := range cases {
		a, b := Cents(tc.in).Halves()
		if a.Cents != tc.first || b.Cents != tc.second {
			t.Fatalf("Halves(%d) = (%d, %d), want (%d, %d)", tc.in, a.Cents, b.Cents, tc.first, tc.second)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{1234, "12.34"},
		{-1200, "-12.00"},
		{5, "0.05"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := Cents(tc.in).String(); got != tc.want {
			t.Fatalf("Cents(%d).String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}
