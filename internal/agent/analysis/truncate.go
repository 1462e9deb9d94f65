package analysis

import (
	"fmt"
	"unicode/utf8"
)

// truncationMarker tells the model that the text was cut.
const truncationMarker = "\n\n[Text gekürzt bei %d Zeichen]"

// Truncate cuts text to ceiling characters (runes) and appends the marker.
// Text at or below the ceiling is returned unmodified.
func Truncate(text string, ceiling int) string {
	if ceiling <= 0 || utf8.RuneCountInString(text) <= ceiling {
		return text
	}
	n := 0
	for i := range text {
		if n == ceiling {
			return text[:i] + fmt.Sprintf(truncationMarker, ceiling)
		}
		n++
	}
	return text
}

// Marker returns the marker appended for the given ceiling.
func Marker(ceiling int) string {
	return fmt.Sprintf(truncationMarker, ceiling)
}
