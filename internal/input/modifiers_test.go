package input

import (
	"reflect"
	"testing"
	"time"
)

func TestModifierTracker_EdgesExactlyOnce(t *testing.T) {
	var tr ModifierTracker

	// X11 reports the state before the event, so shift down arrives with an empty mask.
	got := tr.Check(0, InputKeyLShift, true)
	want := []ModifierEvent{{Key: InputKeyShift, Down: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("shift press: got %v, want %v", got, want)
	}

	// Held: further keys carry the shift bit and produce nothing.
	if got := tr.Check(ModShift, InputKeyA, true); len(got) != 0 {
		t.Fatalf("held shift: got %v, want none", got)
	}
	if got := tr.Check(ModShift, InputKeyA, false); len(got) != 0 {
		t.Fatalf("held shift release of A: got %v, want none", got)
	}

	// Release arrives with the bit still set in the reported mask.
	got = tr.Check(ModShift, InputKeyLShift, false)
	want = []ModifierEvent{{Key: InputKeyShift, Down: false}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("shift release: got %v, want %v", got, want)
	}
	if got := tr.Check(0, InputKeyA, true); len(got) != 0 {
		t.Fatalf("after release: got %v, want none", got)
	}
}

func TestModifierTracker_MultipleModifiersInOrder(t *testing.T) {
	var tr ModifierTracker
	got := tr.Check(ModControl|ModAlt|ModShift, InputKeyB, true)
	want := []ModifierEvent{
		{Key: InputKeyShift, Down: true},
		{Key: InputKeyControl, Down: true},
		{Key: InputKeyAlt, Down: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got = tr.Reset()
	want = []ModifierEvent{
		{Key: InputKeyShift, Down: false},
		{Key: InputKeyControl, Down: false},
		{Key: InputKeyAlt, Down: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("reset: got %v, want %v", got, want)
	}
	if tr.State() != 0 {
		t.Fatalf("expected empty state after reset, got %v", tr.State())
	}
}

func TestModifierTracker_OtherSideKeepsModifierHeld(t *testing.T) {
	var tr ModifierTracker
	tr.Check(0, InputKeyLShift, true)
	if got := tr.Check(ModShift, InputKeyRShift, true); len(got) != 0 {
		t.Fatalf("second shift press: got %v, want none", got)
	}
	if got := tr.Check(ModShift, InputKeyLShift, false); len(got) != 0 {
		t.Fatalf("left shift release with right held: got %v, want none", got)
	}
	if got := tr.Check(ModShift, InputKeyA, true); len(got) != 0 {
		t.Fatalf("key with shift still held: got %v, want none", got)
	}
	got := tr.Check(ModShift, InputKeyRShift, false)
	want := []ModifierEvent{{Key: InputKeyShift, Down: false}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("last shift release: got %v, want %v", got, want)
	}
}

func TestModifierTracker_SuperIsTrackedButSilent(t *testing.T) {
	var tr ModifierTracker
	if got := tr.Check(ModSuper, InputKeyA, true); len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
	if !tr.State().Has(ModSuper) {
		t.Fatalf("expected super in state")
	}
}

func TestModifierForKey(t *testing.T) {
	tests := []struct {
		key  InputKey
		want Modifier
	}{
		{InputKeyRShift, ModShift},
		{InputKeyLControl, ModControl},
		{InputKeyRAlt, ModAlt},
		{InputKeyA, 0},
		{InputKeyLeftMouse, 0},
	}
	for _, tt := range tests {
		if got := ModifierForKey(tt.key); got != tt.want {
			t.Fatalf("ModifierForKey(%v) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestButtonSet(t *testing.T) {
	var s ButtonSet
	s.Press(ButtonLeft)
	s.Press(ButtonRight)
	if !s.Release(ButtonRight) {
		t.Fatalf("expected right to be held")
	}
	if !s.Has(ButtonLeft) || s.Has(ButtonRight) {
		t.Fatalf("unexpected set %08b", s)
	}
	if s.Release(ButtonMiddle) {
		t.Fatalf("middle was never pressed")
	}
	if s.Release(ButtonNone) {
		t.Fatalf("none is never held")
	}
}

func TestMouseButtonKeys(t *testing.T) {
	for _, b := range []MouseButton{ButtonLeft, ButtonMiddle, ButtonRight, ButtonX1, ButtonX2} {
		key := b.InputKey()
		if !key.IsMouse() {
			t.Fatalf("%v maps to non-mouse key %v", b, key)
		}
		if ButtonForKey(key) != b {
			t.Fatalf("round trip for %v failed", b)
		}
	}
	if ButtonNone.InputKey() != InputKeyNone {
		t.Fatalf("expected none")
	}
}

func TestClickCounter(t *testing.T) {
	base := time.Unix(1000, 0)
	c := ClickCounter{Interval: 400 * time.Millisecond, Distance: 3}

	tests := []struct {
		name   string
		button MouseButton
		x, y   int
		after  time.Duration
		want   int
	}{
		{"first", ButtonLeft, 10, 10, 0, 1},
		{"second is double", ButtonLeft, 11, 10, 100 * time.Millisecond, 2},
		{"third starts over", ButtonLeft, 11, 10, 200 * time.Millisecond, 1},
		{"different button", ButtonRight, 11, 10, 250 * time.Millisecond, 1},
		{"too far", ButtonRight, 30, 10, 300 * time.Millisecond, 1},
		{"too late", ButtonRight, 30, 10, 900 * time.Millisecond, 1},
		{"in time again", ButtonRight, 31, 11, 1000 * time.Millisecond, 2},
	}
	for _, tt := range tests {
		if got := c.Press(tt.button, tt.x, tt.y, base.Add(tt.after)); got != tt.want {
			t.Fatalf("%s: got count %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestClickCounter_Reset(t *testing.T) {
	var c ClickCounter
	now := time.Now()
	c.Press(ButtonLeft, 0, 0, now)
	c.Reset()
	if got := c.Press(ButtonLeft, 0, 0, now.Add(time.Millisecond)); got != 1 {
		t.Fatalf("expected reset to forget previous press, got %d", got)
	}
}
