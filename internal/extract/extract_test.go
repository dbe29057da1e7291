package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_PlainText(t *testing.T) {
	text, err := Text("notes.txt", []byte("photosynthesis converts light into chemical energy"))

	require.NoError(t, err)
	assert.Equal(t, "photosynthesis converts light into chemical energy", text)
}

func TestText_ExtensionCaseInsensitive(t *testing.T) {
	text, err := Text("NOTES.TXT", []byte("hello"))

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestText_UnsupportedExtension(t *testing.T) {
	for _, name := range []string{"slides.docx", "image.png", "noext"} {
		_, err := Text(name, []byte("content"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestText_WhitespaceOnly(t *testing.T) {
	_, err := Text("blank.txt", []byte("  \n\t  \n"))

	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestText_InvalidUTF8Replaced(t *testing.T) {
	text, err := Text("legacy.txt", []byte{'a', 0xff, 'b'})

	require.NoError(t, err)
	assert.Equal(t, "a�b", text)
}

func TestText_TruncatesAtLimit(t *testing.T) {
	long := strings.Repeat("x", MaxTextLength+500)

	text, err := Text("big.txt", []byte(long))

	require.NoError(t, err)
	assert.Len(t, text, MaxTextLength)
}

func TestText_TruncatesByRunes(t *testing.T) {
	// multi-byte runes must not be split mid-sequence
	long := strings.Repeat("é", MaxTextLength+10)

	text, err := Text("accents.txt", []byte(long))

	require.NoError(t, err)
	runes := []rune(text)
	assert.Len(t, runes, MaxTextLength)
	assert.Equal(t, 'é', runes[len(runes)-1])
}

func TestText_ExactLimitKeptWhole(t *testing.T) {
	exact := strings.Repeat("y", MaxTextLength)

	text, err := Text("exact.txt", []byte(exact))

	require.NoError(t, err)
	assert.Equal(t, exact, text)
}

func TestText_GarbagePDFRejected(t *testing.T) {
	_, err := Text("broken.pdf", []byte("this is not a pdf"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open PDF")
}
