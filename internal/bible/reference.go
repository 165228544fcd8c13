// Package bible models passage references: a book plus a chapter/verse span,
// with one canonical string form shared by the prompt builder, the ESV
// client, and the proxy endpoints.
package bible

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/berea-app/berea/api/schemas"
)

// Reference is a passage span within one book. End components are always
// populated; a single verse has Start == End.
type Reference struct {
	Book         string
	StartChapter int
	StartVerse   int
	EndChapter   int
	EndVerse     int
}

// FromRequest builds a Reference from a study request, applying the
// end-defaults-to-start rule and validating the book name.
func FromRequest(req schemas.StudyRequest) (Reference, error) {
	req.ApplyDefaults()
	book, ok := CanonicalBook(req.Book)
	if !ok {
		return Reference{}, fmt.Errorf("unknown book %q", req.Book)
	}
	return Reference{
		Book:         book,
		StartChapter: req.StartChapter,
		StartVerse:   req.StartVerse,
		EndChapter:   req.EndChapter,
		EndVerse:     req.EndVerse,
	}, nil
}

// String renders the canonical form: "John 3:16", "John 3:16-18", or
// "John 3:16-4:2" when the span crosses a chapter boundary.
func (r Reference) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d:%d", r.Book, r.StartChapter, r.StartVerse)
	switch {
	case r.EndChapter != r.StartChapter:
		fmt.Fprintf(&b, "-%d:%d", r.EndChapter, r.EndVerse)
	case r.EndVerse != r.StartVerse:
		fmt.Fprintf(&b, "-%d", r.EndVerse)
	}
	return b.String()
}

// refPattern matches the grammar String produces: book, start chapter:verse,
// then optionally "-verse" or "-chapter:verse".
var refPattern = regexp.MustCompile(`^(.+?)\s+(\d+):(\d+)(?:\s*-\s*(?:(\d+):)?(\d+))?$`)

// Parse recovers the components of a canonical reference string. It accepts
// any book name matched case-insensitively against the canon.
func Parse(s string) (Reference, error) {
	m := refPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Reference{}, fmt.Errorf("malformed reference %q", s)
	}
	book, ok := CanonicalBook(m[1])
	if !ok {
		return Reference{}, fmt.Errorf("unknown book %q", m[1])
	}

	ref := Reference{Book: book}
	ref.StartChapter, _ = strconv.Atoi(m[2])
	ref.StartVerse, _ = strconv.Atoi(m[3])
	ref.EndChapter = ref.StartChapter
	ref.EndVerse = ref.StartVerse

	if m[5] != "" {
		ref.EndVerse, _ = strconv.Atoi(m[5])
		if m[4] != "" {
			ref.EndChapter, _ = strconv.Atoi(m[4])
		}
	}

	if ref.EndChapter < ref.StartChapter ||
		(ref.EndChapter == ref.StartChapter && ref.EndVerse < ref.StartVerse) {
		return Reference{}, fmt.Errorf("reference %q ends before it starts", s)
	}
	return ref, nil
}

// Request converts the reference back into a study request shape.
func (r Reference) Request() schemas.StudyRequest {
	return schemas.StudyRequest{
		Book:         r.Book,
		StartChapter: r.StartChapter,
		StartVerse:   r.StartVerse,
		EndChapter:   r.EndChapter,
		EndVerse:     r.EndVerse,
	}
}
