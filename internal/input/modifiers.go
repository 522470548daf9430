package input

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Has reports whether every bit of m is set.
func (mods Modifier) Has(m Modifier) bool {
	return mods&m == m
}

// ModifierEvent is a synthesized key transition for a generic modifier.
type ModifierEvent struct {
	Key  InputKey
	Down bool
}

// trackedModifiers lists the modifiers that get synthesized key events, in
// emission order.
var trackedModifiers = []struct {
	mod Modifier
	key InputKey
}{
	{ModShift, InputKeyShift},
	{ModControl, InputKeyControl},
	{ModAlt, InputKeyAlt},
}

// ModifierForKey returns the modifier bit a key drives, or 0.
func ModifierForKey(key InputKey) Modifier {
	switch key {
	case InputKeyShift, InputKeyLShift, InputKeyRShift:
		return ModShift
	case InputKeyControl, InputKeyLControl, InputKeyRControl:
		return ModControl
	case InputKeyAlt, InputKeyLAlt, InputKeyRAlt:
		return ModAlt
	default:
		return 0
	}
}

// ModifierTracker turns successive modifier masks into key transitions.
// The zero value starts with nothing held.
type ModifierTracker struct {
	state Modifier
	sides uint8 // sided modifier keys currently held, see sideBit
}

func sideBit(key InputKey) uint8 {
	switch key {
	case InputKeyLShift:
		return 1 << 0
	case InputKeyRShift:
		return 1 << 1
	case InputKeyLControl:
		return 1 << 2
	case InputKeyRControl:
		return 1 << 3
	case InputKeyLAlt:
		return 1 << 4
	case InputKeyRAlt:
		return 1 << 5
	default:
		return 0
	}
}

func sidesOf(m Modifier) uint8 {
	switch m {
	case ModShift:
		return 1<<0 | 1<<1
	case ModControl:
		return 1<<2 | 1<<3
	case ModAlt:
		return 1<<4 | 1<<5
	default:
		return 0
	}
}

// State returns the last mask seen by Check.
func (t *ModifierTracker) State() Modifier {
	return t.state
}

// Check folds the originating key into mods according to its direction and
// returns one event per modifier whose held state changed since the last
// call. Native layers that report the mask as it was before the key event
// (X11 does) still produce the transition on the modifier key's own event.
// Releasing one side of a modifier keeps it held while the other side is
// still down.
func (t *ModifierTracker) Check(mods Modifier, key InputKey, down bool) []ModifierEvent {
	if m := ModifierForKey(key); m != 0 {
		if down {
			t.sides |= sideBit(key)
			mods |= m
		} else {
			t.sides &^= sideBit(key)
			if t.sides&sidesOf(m) != 0 {
				mods |= m
			} else {
				mods &^= m
			}
		}
	}
	return t.Sync(mods)
}

// Sync moves the tracker to mods and returns the transitions.
func (t *ModifierTracker) Sync(mods Modifier) []ModifierEvent {
	var events []ModifierEvent
	for _, tm := range trackedModifiers {
		was := t.state&tm.mod != 0
		now := mods&tm.mod != 0
		if was != now {
			events = append(events, ModifierEvent{Key: tm.key, Down: now})
		}
	}
	t.state = mods
	return events
}

// Reset releases every held modifier, returning the up transitions.
func (t *ModifierTracker) Reset() []ModifierEvent {
	t.sides = 0
	return t.Sync(0)
}
