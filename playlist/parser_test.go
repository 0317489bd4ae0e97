package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePLS(t *testing.T) {
	body := "[playlist]\nFile1=http://a.example/stream.mp3\nTitle1=X\nNumberOfEntries=1"
	u, ok := Parse(body, "audio/x-scpls", "http://dir.example/station.pls")
	require.True(t, ok)
	assert.Equal(t, "http://a.example/stream.mp3", u)
}

func TestParseM3U(t *testing.T) {
	body := "#EXTM3U\n#EXTINF:-1,Station\nhttp://b.example/live"
	u, ok := Parse(body, "audio/mpegurl", "http://dir.example/station.m3u")
	require.True(t, ok)
	assert.Equal(t, "http://b.example/live", u)
}

func TestParseEmptyPLS(t *testing.T) {
	_, ok := Parse("[playlist]\nNumberOfEntries=0", "audio/x-scpls", "http://dir.example/station.pls")
	assert.False(t, ok)
}

func TestParsePLSDetails(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		expected  string
		title     string
		fallbacks []string
	}{
		{
			name:     "case insensitive keys and windows newlines",
			body:     "[playlist]\r\nfile1= http://a.example/one \r\ntitle1=One\r\n",
			expected: "http://a.example/one",
			title:    "One",
		},
		{
			name:     "skips non http entries",
			body:     "[playlist]\nFile1=mms://old.example/x\nFile2=https://new.example/x\nTitle2=New",
			expected: "https://new.example/x",
			title:    "New",
		},
		{
			name:     "value keeps later equal signs",
			body:     "[playlist]\nFile1=http://a.example/s?id=1&k=2",
			expected: "http://a.example/s?id=1&k=2",
		},
		{
			name:      "mirrors become fallbacks",
			body:      "[playlist]\nFile1=http://a.example/1\nFile2=http://b.example/2\nFile3=http://c.example/3",
			expected:  "http://a.example/1",
			fallbacks: []string{"http://b.example/2", "http://c.example/3"},
		},
		{
			name:     "indented keys",
			body:     "[playlist]\n  File1=http://a.example/indented\n\tTitle1=Indented",
			expected: "http://a.example/indented",
			title:    "Indented",
		},
		{
			name:     "key without index",
			body:     "[playlist]\nFile=http://a.example/plain",
			expected: "http://a.example/plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := ParseEntry(tt.body, "audio/x-scpls", "http://dir.example/x.pls")
			require.True(t, ok)
			assert.Equal(t, tt.expected, e.URL)
			assert.Equal(t, tt.title, e.Title)
			assert.Equal(t, tt.fallbacks, e.Fallbacks)
		})
	}
}

func TestParseM3UDetails(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		title    string
		ok       bool
	}{
		{"bare url", "http://b.example/live\n", "http://b.example/live", "", true},
		{"skips relative lines", "#EXTM3U\nrelative/path.mp3\nhttps://b.example/abs", "https://b.example/abs", "", true},
		{"extinf title with attributes", "#EXTM3U\n#EXTINF:-1 tvg-name=\"x\",Jazz FM\nhttp://b.example/jazz", "http://b.example/jazz", "Jazz FM", true},
		{"only directives", "#EXTM3U\n#EXTINF:-1,Nothing\n", "", "", false},
		{"empty body", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := ParseEntry(tt.body, "audio/mpegurl", "http://dir.example/x.m3u")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, e.URL)
				assert.Equal(t, tt.title, e.Title)
			}
		})
	}
}

func TestParseSniffsMislabelledPLS(t *testing.T) {
	body := "\n[playlist]\nFile1=http://a.example/stream\n"
	u, ok := Parse(body, "audio/x-mpegurl", "http://dir.example/station.m3u")
	require.True(t, ok)
	assert.Equal(t, "http://a.example/stream", u)
}

func TestParseDecodesLatin1Titles(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		title       string
	}{
		{"latin-1 pls", "[playlist]\nFile1=http://a.example/s\nTitle1=Radio Z\xfcrich\n", "audio/x-scpls", "Radio Zürich"},
		{"windows-1252 m3u", "#EXTM3U\n#EXTINF:-1,Caf\xe9 \x96 Jazz\nhttp://a.example/s\n", "audio/mpegurl", "Café – Jazz"},
		{"utf-8 kept as is", "[playlist]\nFile1=http://a.example/s\nTitle1=Radio Zürich\n", "audio/x-scpls", "Radio Zürich"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := ParseEntry(tt.body, tt.contentType, "http://dir.example/station")
			require.True(t, ok)
			assert.Equal(t, "http://a.example/s", e.URL)
			assert.Equal(t, tt.title, e.Title)
		})
	}
}
