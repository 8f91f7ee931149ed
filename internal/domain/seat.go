package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// SeatsPerRow is the cabin layout used for every airplane: letters A..F.
const SeatsPerRow = 6

var seatLabel = regexp.MustCompile(`^[1-9][0-9]{0,2}[A-F]$`)

// NormalizeSeat upper-cases and trims a seat label.
func NormalizeSeat(seat string) string {
	return strings.ToUpper(strings.TrimSpace(seat))
}

func ValidSeat(seat string) bool {
	return seatLabel.MatchString(seat)
}

// SeatLabels lists capacity seats row by row: 1A..1F, 2A.. The last row may
// be partial.
func SeatLabels(capacity int) []string {
	if capacity <= 0 {
		return nil
	}
	labels := make([]string, 0, capacity)
	for i := 0; i < capacity; i++ {
		labels = append(labels, fmt.Sprintf("%d%c", i/SeatsPerRow+1, 'A'+rune(i%SeatsPerRow)))
	}
	return labels
}

// SeatWithin reports whether seat exists on an airplane of the given capacity.
func SeatWithin(seat string, capacity int) bool {
	if !ValidSeat(seat) {
		return false
	}
	var row int
	var letter rune
	if _, err := fmt.Sscanf(seat, "%d%c", &row, &letter); err != nil {
		return false
	}
	return (row-1)*SeatsPerRow+int(letter-'A') < capacity
}
