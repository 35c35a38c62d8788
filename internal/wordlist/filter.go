package wordlist

import "strings"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglishASCII
	default:
		return func(string) bool { return true }
	}
}

// Filter returns a vocabulary holding only the words keep accepts.
func (v *Vocabulary) Filter(keep FilterFunc) (*Vocabulary, error) {
	kept := make([]string, 0, len(v.words))
	for _, word := range v.words {
		if keep(word) {
			kept = append(kept, word)
		}
	}
	return New(kept)
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
