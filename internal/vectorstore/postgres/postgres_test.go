package postgres

import "testing"

func TestVectorLiteral(t *testing.T) {
	got := vectorLiteral([]float32{1, -0.5, 0})
	want := "[1,-0.5,0]"
	if got != want {
		t.Errorf("vectorLiteral = %q, want %q", got, want)
	}
}

func TestVectorLiteralEmpty(t *testing.T) {
	if got := vectorLiteral(nil); got != "[]" {
		t.Errorf("vectorLiteral(nil) = %q", got)
	}
}
