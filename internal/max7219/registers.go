// Package max7219 drives a MAX7219-style digit-matrix display controller
// over a bit-banged three wire bus (DIN, CLK, CS).
//
// Every write is a 16-bit address/data pair shifted MSB first with CS held
// low; CS rising latches the word. The bus has no acknowledgment, so a wiring
// fault shows up as wrong segments, never as an error from this package.
package max7219

// Register addresses
const (
	RegNoOp        byte = 0x00
	RegDigit0      byte = 0x01 // digit registers run 0x01..0x08
	RegDecodeMode  byte = 0x09
	RegIntensity   byte = 0x0a
	RegScanLimit   byte = 0x0b
	RegShutdown    byte = 0x0c
	RegDisplayTest byte = 0x0f
)

// NumDigits is the number of digit registers.
const NumDigits = 8

// Configuration values written by Initialize.
const (
	noDecode        byte = 0x00
	MaxIntensity    byte = 0x0f
	scanAllDigits   byte = 0x07
	normalOperation byte = 0x01
	testOff         byte = 0x00
)

// Digit positions of the readout. Position 1 is the rightmost digit.
const (
	posUnit     byte = 1
	posOnes     byte = 2
	posTens     byte = 3
	posHundreds byte = 4
)

// Segment bit layout: DP A B C D E F G, MSB first.
var digitPatterns = [10]byte{
	0b01111110, // 0
	0b00110000, // 1
	0b01101101, // 2
	0b01111001, // 3
	0b00110011, // 4
	0b01011011, // 5
	0b01011111, // 6
	0b01110000, // 7
	0b01111111, // 8
	0b01111011, // 9
}

// Unit glyphs.
const (
	PatternC byte = 0b01001110
	PatternF byte = 0b01000111
)

// DigitPattern returns the segment pattern for digit d (0-9).
func DigitPattern(d int) byte {
	return digitPatterns[d]
}

// Decode maps a segment pattern back to the character it draws.
// Blank digits decode to ' ', unknown patterns to '?'.
func Decode(pattern byte) rune {
	switch pattern {
	case 0:
		return ' '
	case PatternC:
		return 'C'
	case PatternF:
		return 'F'
	}
	for d, p := range digitPatterns {
		if p == pattern {
			return rune('0' + d)
		}
	}
	return '?'
}
