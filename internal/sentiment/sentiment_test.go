package sentiment

import "testing"

func TestCompound_Polarity(t *testing.T) {
	v := NewVADER()

	pos, err := v.Compound("This is wonderful, amazing news and I love it!")
	if err != nil {
		t.Fatalf("Compound: %v", err)
	}
	if pos <= 0 {
		t.Errorf("positive text compound = %v, want > 0", pos)
	}

	neg, err := v.Compound("This is horrible, disgusting and I hate everything about it!")
	if err != nil {
		t.Fatalf("Compound: %v", err)
	}
	if neg >= 0 {
		t.Errorf("negative text compound = %v, want < 0", neg)
	}

	neutral, err := v.Compound("The meeting is scheduled for Tuesday.")
	if err != nil {
		t.Fatalf("Compound: %v", err)
	}
	if neutral < -0.3 || neutral > 0.3 {
		t.Errorf("neutral text compound = %v, want near 0", neutral)
	}
}

func TestCompound_EmptyText(t *testing.T) {
	v := NewVADER()
	got, err := v.Compound("")
	if err != nil {
		t.Fatalf("Compound: %v", err)
	}
	if got != 0 {
		t.Errorf("empty text compound = %v, want 0", got)
	}
}
