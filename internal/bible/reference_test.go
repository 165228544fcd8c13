package bible

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berea-app/berea/api/schemas"
)

// -- Test Cases: Canonical Rendering (String) --

func TestReference_String(t *testing.T) {
	testCases := []struct {
		name     string
		ref      Reference
		expected string
	}{
		{
			name:     "single verse",
			ref:      Reference{Book: "John", StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 16},
			expected: "John 3:16",
		},
		{
			name:     "verse range in one chapter",
			ref:      Reference{Book: "John", StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 21},
			expected: "John 3:16-21",
		},
		{
			name:     "range across chapters",
			ref:      Reference{Book: "Genesis", StartChapter: 1, StartVerse: 26, EndChapter: 2, EndVerse: 3},
			expected: "Genesis 1:26-2:3",
		},
		{
			name:     "multi-word book",
			ref:      Reference{Book: "1 Corinthians", StartChapter: 13, StartVerse: 1, EndChapter: 13, EndVerse: 13},
			expected: "1 Corinthians 13:1-13",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.ref.String())
		})
	}
}

// -- Test Cases: Parsing (Parse) --

// Every canonical rendering must parse back to the identical reference.
func TestParse_RoundTrip(t *testing.T) {
	refs := []Reference{
		{Book: "John", StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 16},
		{Book: "John", StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 21},
		{Book: "Genesis", StartChapter: 1, StartVerse: 26, EndChapter: 2, EndVerse: 3},
		{Book: "Song of Solomon", StartChapter: 2, StartVerse: 1, EndChapter: 2, EndVerse: 7},
		{Book: "2 Timothy", StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 17},
	}

	for _, want := range refs {
		t.Run(want.String(), func(t *testing.T) {
			got, err := Parse(want.String())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParse_NormalizesBookName(t *testing.T) {
	got, err := Parse("psalm 23:1-6")

	require.NoError(t, err)
	assert.Equal(t, "Psalms", got.Book)
}

func TestParse_Failures(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "book only", input: "John"},
		{name: "missing verse", input: "John 3"},
		{name: "unknown book", input: "Hezekiah 1:1"},
		{name: "backwards range", input: "John 3:18-16"},
		{name: "backwards chapter range", input: "John 4:1-3:16"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			assert.Error(t, err)
		})
	}
}

// -- Test Cases: Request Conversion --

func TestFromRequest_AppliesDefaults(t *testing.T) {
	req := schemas.StudyRequest{Book: "john", StartChapter: 3, StartVerse: 16}

	ref, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, "John", ref.Book)
	assert.Equal(t, 3, ref.EndChapter)
	assert.Equal(t, 16, ref.EndVerse)
	assert.Equal(t, "John 3:16", ref.String())
}

func TestFromRequest_UnknownBook(t *testing.T) {
	_, err := FromRequest(schemas.StudyRequest{Book: "Opinions", StartChapter: 1, StartVerse: 1})

	assert.Error(t, err)
}

func TestReference_Request_RoundTrip(t *testing.T) {
	ref := Reference{Book: "Romans", StartChapter: 8, StartVerse: 28, EndChapter: 8, EndVerse: 39}

	back, err := FromRequest(ref.Request())

	require.NoError(t, err)
	assert.Equal(t, ref, back)
}

// -- Test Cases: Book Canon (CanonicalBook) --

func TestCanonicalBook(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "genesis", expected: "Genesis", ok: true},
		{input: "PSALM", expected: "Psalms", ok: true},
		{input: "song of songs", expected: "Song of Solomon", ok: true},
		{input: "revelations", expected: "Revelation", ok: true},
		{input: "1 corinthians", expected: "1 Corinthians", ok: true},
		{input: "letters to the editor", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := CanonicalBook(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestBooks_CanonSize(t *testing.T) {
	assert.Len(t, Books(), 66)
}
