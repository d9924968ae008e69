package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
)

func ptr(s string) *string { return &s }

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name   string
		url    *string
		text   *string
		title  *string
		want   string
		wantOK bool
	}{
		{
			name:   "url short-circuits",
			url:    ptr("https://a.com"),
			text:   ptr("https://other.com"),
			title:  ptr("https://third.com"),
			want:   "https://a.com",
			wantOK: true,
		},
		{
			name:   "url with trailing newline is kept verbatim",
			url:    ptr("https://a.com/x\n"),
			text:   ptr("https://other.com"),
			want:   "https://a.com/x\n",
			wantOK: true,
		},
		{
			name:   "url without slashes is accepted",
			url:    ptr("https:a.com"),
			want:   "https:a.com",
			wantOK: true,
		},
		{
			name:   "url with out-of-range port falls through to text",
			url:    ptr("https://a.com:70000"),
			text:   ptr("https://d.com"),
			want:   "https://d.com",
			wantOK: true,
		},
		{
			name:   "url extracted from text",
			text:   ptr("see https://b.com/x please"),
			want:   "https://b.com/x",
			wantOK: true,
		},
		{
			name:   "title fallback",
			title:  ptr("https://c.com"),
			want:   "https://c.com",
			wantOK: true,
		},
		{
			name:   "invalid url falls through to text",
			url:    ptr("not-a-url"),
			text:   ptr("https://d.com"),
			want:   "https://d.com",
			wantOK: true,
		},
		{
			name:   "non-http url falls through to title",
			url:    ptr("ftp://example.com"),
			title:  ptr("https://e.com"),
			want:   "https://e.com",
			wantOK: true,
		},
		{
			name:   "text wins over title",
			text:   ptr("https://text.example.com"),
			title:  ptr("https://title.example.com"),
			want:   "https://text.example.com",
			wantOK: true,
		},
		{
			name:   "first url in text wins",
			text:   ptr("one http://first.com two https://second.com"),
			want:   "http://first.com",
			wantOK: true,
		},
		{
			name:   "trailing punctuation is kept",
			text:   ptr("read this: https://f.com/post."),
			want:   "https://f.com/post.",
			wantOK: true,
		},
		{
			name:   "stops at whitespace",
			text:   ptr("https://g.com/a title"),
			want:   "https://g.com/a",
			wantOK: true,
		},
		{
			name:   "stops at newline",
			text:   ptr("Title\nhttps://h.com/x\nmore"),
			want:   "https://h.com/x",
			wantOK: true,
		},
		{
			name:  "scheme match is case-sensitive in text",
			text:  ptr("HTTPS://upper.example.com"),
			title: nil,
		},
		{
			name: "text match without host is rejected",
			text: ptr("broken https:// link"),
		},
		{
			name:  "invalid text match does not block title",
			text:  ptr("broken https:// link"),
			title: ptr("https://i.com"), want: "https://i.com", wantOK: true,
		},
		{
			name: "nothing provided",
		},
		{
			name: "text without url",
			text: ptr("just some text"),
		},
		{
			name:  "all empty strings",
			url:   ptr(""),
			text:  ptr(""),
			title: ptr(""),
		},
		{
			name:  "title that is not a url",
			title: ptr("My favourite article"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractURL(tt.url, tt.text, tt.title)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFromQuery(t *testing.T) {
	got, ok := ExtractFromQuery(domain.ShareQuery{Text: ptr("Check this out: https://share.example.com/article some more text")})
	assert.True(t, ok)
	assert.Equal(t, "https://share.example.com/article", got)
}

func TestExtractURLIsDeterministic(t *testing.T) {
	text := ptr("a https://x.com b https://y.com")
	first, _ := ExtractURL(nil, text, nil)
	for i := 0; i < 10; i++ {
		got, _ := ExtractURL(nil, text, nil)
		assert.Equal(t, first, got)
	}
}
