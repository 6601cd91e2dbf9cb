package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	text, err := Extract("resume.txt", []byte("  Jane Doe\nGo developer\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
}

func TestExtractHTML(t *testing.T) {
	html := []byte(`<html><head><style>body{color:red}</style></head>
<body>
  <h1>Jane Doe</h1>
  <script>track()</script>
  <p>Go   developer with
  five years of experience.</p>
</body></html>`)

	text, err := Extract("resume.html", html)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Go developer with five years of experience.", text)
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "color:red")
}

func TestExtractHTMLFragment(t *testing.T) {
	text, err := Extract("resume.htm", []byte("<p>Jane</p>\n<p>Doe</p>"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)
}

func TestExtractUnsupported(t *testing.T) {
	_, err := Extract("resume.pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported resume format")
}
