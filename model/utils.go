package model

import "unicode"

func containsLetter(s string) bool {
	for _, c := range s {
		if unicode.IsLetter(c) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, c := range s {
		if unicode.IsDigit(c) {
			return true
		}
	}
	return false
}

// checkCharacterName accepts capitalized single-word names made of letters,
// the form the game client displays above characters.
func checkCharacterName(s string) bool {
	if len(s) < 2 || len(s) > 25 {
		return false
	}
	for i, c := range s {
		if !unicode.IsLetter(c) {
			return false
		}
		if i == 0 && !unicode.IsUpper(c) {
			return false
		}
	}
	return true
}
