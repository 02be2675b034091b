package bitarray

import "testing"

func TestNewWordCount(t *testing.T) {
	tests := []struct {
		bits, capacity int
		wantWords      int
	}{
		{5, 13, 2},
		{4, 4096, 256},
		{15, 4096, 1024},
		{1, 64, 1},
		{0, 4096, 0},
	}

	for _, tt := range tests {
		b := New(tt.bits, tt.capacity)
		if got := len(b.Data()); got != tt.wantWords {
			t.Errorf("New(%d, %d): %d words, want %d", tt.bits, tt.capacity, got, tt.wantWords)
		}
	}
}

// A 5-bit array holds 12 values per word, so 13 values need 2 words and
// the 13th lands alone at the bottom of word 1.
func TestNonSpanningPack(t *testing.T) {
	b := New(5, 13)
	vals := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
	for i, v := range vals {
		if err := b.Set(i, v); err != nil {
			t.Fatalf("Set(%d, %d): %v", i, v, err)
		}
	}

	for i, want := range vals {
		got, err := b.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("Get(%d) = %d, want %d", i, got, want)
		}
	}

	words := b.Data()
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0] != 0x62d4941cc520c41 {
		t.Errorf("word 0 = %#x, want 0x62d4941cc520c41", words[0])
	}
	if words[1] != 0xd {
		t.Errorf("word 1 = %#x, want 0xd", words[1])
	}
}

func TestGetSetRoundTripIndependence(t *testing.T) {
	b := New(6, 40)
	for i := 0; i < 40; i++ {
		if err := b.Set(i, uint32(i*3%64)); err != nil {
			t.Fatalf("Set(%d): %v", i, err)
		}
	}
	for i := 0; i < 40; i++ {
		want := uint32(i * 3 % 64)
		got, _ := b.Get(i)
		if got != want {
			t.Errorf("Get(%d) = %d, want %d", i, got, want)
		}
	}

	// Overwriting one slot must not disturb its neighbors.
	if err := b.Set(20, 1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 40; i++ {
		if i == 20 {
			continue
		}
		want := uint32(i * 3 % 64)
		got, _ := b.Get(i)
		if got != want {
			t.Errorf("after Set(20,1): Get(%d) = %d, want %d (disturbed)", i, got, want)
		}
	}
}

func TestZeroBitsAlwaysZero(t *testing.T) {
	b := New(0, 100)
	got, err := b.Get(50)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("Get on 0-bit array = %d, want 0", got)
	}
	if err := b.Set(50, 0); err != nil {
		t.Errorf("Set(0) on 0-bit array should succeed: %v", err)
	}
}

func TestOutOfBounds(t *testing.T) {
	b := New(4, 10)
	if _, err := b.Get(10); err == nil {
		t.Error("Get(10) on capacity-10 array should fail")
	}
	if err := b.Set(10, 0); err == nil {
		t.Error("Set(10) on capacity-10 array should fail")
	}
}

func TestValueTooWide(t *testing.T) {
	b := New(4, 10)
	if err := b.Set(0, 16); err == nil {
		t.Error("Set with value 16 into 4-bit array should fail")
	}
	if err := b.Set(0, 15); err != nil {
		t.Errorf("Set with value 15 into 4-bit array should succeed: %v", err)
	}
}

func TestFromDataRejectsMismatchedLength(t *testing.T) {
	if _, err := FromData(5, 13, make([]uint64, 1)); err == nil {
		t.Error("FromData with wrong word count should fail")
	}
	if _, err := FromData(5, 13, make([]uint64, 2)); err != nil {
		t.Errorf("FromData with correct word count should succeed: %v", err)
	}
}

func TestFromDataZeroCapacity(t *testing.T) {
	b, err := FromData(4, 0, nil)
	if err != nil {
		t.Fatalf("FromData with zero capacity should succeed: %v", err)
	}
	if b.Capacity() != 0 {
		t.Errorf("Capacity() = %d, want 0", b.Capacity())
	}
}
