package bible

import "strings"

// books lists the 66 canonical book names in order. The detailed per-chapter
// verse counts live with the UI's picker, not here; the service only needs to
// recognize a book and normalize its casing.
var books = []string{
	"Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy",
	"Joshua", "Judges", "Ruth", "1 Samuel", "2 Samuel",
	"1 Kings", "2 Kings", "1 Chronicles", "2 Chronicles", "Ezra",
	"Nehemiah", "Esther", "Job", "Psalms", "Proverbs",
	"Ecclesiastes", "Song of Solomon", "Isaiah", "Jeremiah", "Lamentations",
	"Ezekiel", "Daniel", "Hosea", "Joel", "Amos",
	"Obadiah", "Jonah", "Micah", "Nahum", "Habakkuk",
	"Zephaniah", "Haggai", "Zechariah", "Malachi",
	"Matthew", "Mark", "Luke", "John", "Acts",
	"Romans", "1 Corinthians", "2 Corinthians", "Galatians", "Ephesians",
	"Philippians", "Colossians", "1 Thessalonians", "2 Thessalonians", "1 Timothy",
	"2 Timothy", "Titus", "Philemon", "Hebrews", "James",
	"1 Peter", "2 Peter", "1 John", "2 John", "3 John",
	"Jude", "Revelation",
}

// aliases maps common alternate spellings to canonical names.
var aliases = map[string]string{
	"psalm":           "Psalms",
	"song of songs":   "Song of Solomon",
	"canticles":       "Song of Solomon",
	"revelations":     "Revelation",
}

var bookIndex = func() map[string]string {
	idx := make(map[string]string, len(books)+len(aliases))
	for _, b := range books {
		idx[strings.ToLower(b)] = b
	}
	for alias, b := range aliases {
		idx[alias] = b
	}
	return idx
}()

// CanonicalBook matches a book name case-insensitively against the canon and
// returns its canonical spelling.
func CanonicalBook(name string) (string, bool) {
	b, ok := bookIndex[strings.ToLower(strings.TrimSpace(name))]
	return b, ok
}

// Books returns the canonical book list in order.
func Books() []string {
	out := make([]string, len(books))
	copy(out, books)
	return out
}
