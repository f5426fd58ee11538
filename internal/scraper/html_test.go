package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><body>
<div class="card base-card"><h3 class="title">  AI   Research
 Intern </h3><a href="/jobs/1?ref=x">Apply now</a></div>
<div id="job-description"><p>First</p><script>var x = 1;</script><p>Second</p></div>
<a href="https://other.example/page">External link</a>
<a href="">empty</a>
</body></html>`

func TestFindHelpers(t *testing.T) {
	doc, err := Parse(samplePage)
	require.NoError(t, err)

	cards := FindAll(doc, Match{Tag: "div", Class: "base-card"})
	require.Len(t, cards, 1)
	assert.True(t, HasClass(cards[0], "card"))
	assert.Equal(t, "AI Research Intern", FindText(cards[0], Match{Tag: "h3"}))

	assert.Equal(t, "First Second", FindText(doc, Match{ID: "job-description"}))
	assert.Nil(t, FindFirst(doc, Match{Tag: "table"}))
	assert.Equal(t, "", FindText(doc, Match{Tag: "table"}))
}

func TestExtractLinks(t *testing.T) {
	doc, err := Parse(samplePage)
	require.NoError(t, err)

	links := ExtractLinks(doc, "https://site.example/careers/")
	require.Len(t, links, 2)
	assert.Equal(t, Link{Text: "Apply now", Href: "https://site.example/jobs/1?ref=x"}, links[0])
	assert.Equal(t, "https://other.example/page", links[1].Href)
}

func TestNormalizeAndTruncate(t *testing.T) {
	// decomposed e + combining acute becomes the single composed rune
	assert.Equal(t, "caf\u00e9 au lait", NormalizeText("  cafe\u0301 \n au\tlait "))
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "hi", Truncate("hi", 4))
}

func TestDetectSignals(t *testing.T) {
	got := DetectSignals("A funded Research project with a Prototype", []string{"research", "prototype", "grant"})
	assert.Equal(t, []string{"research", "prototype"}, got)
	assert.Empty(t, DetectSignals("", []string{"research"}))
}

func TestExtractRequirements(t *testing.T) {
	tests := []struct {
		desc string
		want []string
	}{
		{"Python and PyTorch for computer vision research", []string{"Python", "Computer Vision", "PyTorch", "Research"}},
		{"Competitive salary", []string{"Paid internship"}},
		{"This is an unpaid role", []string{"Paid internship", "Unpaid internship"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractRequirements(tt.desc), tt.desc)
	}
}
