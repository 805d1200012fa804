package validate

import "testing"

func TestName(t *testing.T) {
	t.Parallel()

	if _, err := Name("A"); err == nil {
		t.Fatal("one-letter name accepted")
	}
	if _, err := Name("Ali5"); err == nil {
		t.Fatal("digit in name accepted")
	}
	got, err := Name("  Ali Khan  ")
	if err != nil {
		t.Fatalf("Name() error = %v", err)
	}
	if got != "Ali Khan" {
		t.Fatalf("Name() = %q, want %q", got, "Ali Khan")
	}
}

func TestNameCountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	// "Ö" is two bytes but a single character.
	if _, err := Name("Ö"); err == nil {
		t.Fatal("one-rune multibyte name accepted")
	}
	got, err := Name("Ömer Çelik")
	if err != nil {
		t.Fatalf("Name() error = %v", err)
	}
	if got != "Ömer Çelik" {
		t.Fatalf("Name() = %q, want %q", got, "Ömer Çelik")
	}
}

func TestRoll(t *testing.T) {
	t.Parallel()

	if _, err := Roll("ab"); err == nil {
		t.Fatal("two-char roll accepted")
	}
	got, err := Roll(" bscs001 ")
	if err != nil {
		t.Fatalf("Roll() error = %v", err)
	}
	if got != "BSCS001" {
		t.Fatalf("Roll() = %q, want %q", got, "BSCS001")
	}
}

func TestFee(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "18,300", want: 18300},
		{in: "15000.50", want: 15000.50},
		{in: "abc", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "0", wantErr: true},
		{in: "2000000", wantErr: true},
	}
	for _, tc := range cases {
		got, err := Fee(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Fee(%q) accepted, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Fee(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Fee(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
