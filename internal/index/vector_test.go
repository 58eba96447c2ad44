package index

import (
	"reflect"
	"testing"
)

func TestVectorBlobRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.75}
	got := DeserializeVector(SerializeVector(vec))
	if !reflect.DeepEqual(got, vec) {
		t.Fatalf("round trip: got %v want %v", got, vec)
	}
}

func TestDeserializeVector_Invalid(t *testing.T) {
	if v := DeserializeVector(nil); v != nil {
		t.Fatalf("nil blob should yield nil, got %v", v)
	}
	if v := DeserializeVector([]byte{1, 2, 3}); v != nil {
		t.Fatalf("truncated blob should yield nil, got %v", v)
	}
}

func TestVectorLiteral(t *testing.T) {
	if got := VectorLiteral([]float32{1, 0.5}); got != "[1,0.5]" {
		t.Fatalf("literal: got %q", got)
	}
	if got := VectorLiteral(nil); got != "[]" {
		t.Fatalf("empty literal: got %q", got)
	}
}
