package pads

// Pads are laid out top-left to bottom-right:
//
//	E R T    7 8 9
//	D F G    4 5 6
//	C V B    1 2 3
var keyMap = map[string]int{
	"e": 0, "r": 1, "t": 2,
	"d": 3, "f": 4, "g": 5,
	"c": 6, "v": 7, "b": 8,
	"7": 0, "8": 1, "9": 2,
	"4": 3, "5": 4, "6": 5,
	"1": 6, "2": 7, "3": 8,
}

var keyHints = [Count]string{
	"E / 7", "R / 8", "T / 9",
	"D / 4", "F / 5", "G / 6",
	"C / 1", "V / 2", "B / 3",
}

// DefaultBaseNote is the MIDI note of pad 0 on common drum-pad controllers
const DefaultBaseNote = 36

// ForKey returns the pad triggered by a key name
func ForKey(key string) (int, bool) {
	idx, ok := keyMap[key]
	return idx, ok
}

// Hint returns the key hint printed on pad index
func Hint(index int) string {
	if index < 0 || index >= Count {
		return ""
	}
	return keyHints[index]
}

// ForNote returns the pad triggered by a MIDI note, counting up from base
func ForNote(note, base uint8) (int, bool) {
	if note < base {
		return 0, false
	}
	idx := int(note - base)
	if idx >= Count {
		return 0, false
	}
	return idx, true
}
