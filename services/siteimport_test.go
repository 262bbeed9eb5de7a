package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHotelPage = `<!doctype html>
<html>
<head>
  <title>Grand Plaza Hotel</title>
  <meta name="description" content="A seaside hotel with spa and restaurant.">
  <style>.x{color:red}</style>
</head>
<body>
  <nav><a href="/rooms">Rooms</a></nav>
  <main>
    <h1>Welcome to Grand Plaza</h1>
    <p>Check-in from 14:00, check-out until 12:00.</p>
    <ul><li>Free parking for guests</li></ul>
    <script>analytics()</script>
  </main>
  <footer>
    <a href="/contacts">Contacts</a>
    <a href="https://booking.example.org/grand-plaza">Book</a>
    <a href="/rooms#gallery">Gallery</a>
  </footer>
</body>
</html>`

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractPageContent(t *testing.T) {
	doc := parseHTML(t, sampleHotelPage)
	page := ExtractPageContent(doc, "https://grandplaza.example.com/")

	assert.Equal(t, "Grand Plaza Hotel", page.Title)
	assert.Contains(t, page.Text, "A seaside hotel with spa and restaurant.")
	assert.Contains(t, page.Text, "Check-in from 14:00")
	assert.Contains(t, page.Text, "Free parking for guests")
	assert.NotContains(t, page.Text, "analytics()")
	assert.NotContains(t, page.Text, "color:red")
}

func TestExtractPageContentFallsBackToH1(t *testing.T) {
	doc := parseHTML(t, `<html><body><h1>Rooms</h1><p>Twin and double rooms.</p></body></html>`)
	page := ExtractPageContent(doc, "https://grandplaza.example.com/rooms")
	assert.Equal(t, "Rooms", page.Title)
}

func TestSameHostLinks(t *testing.T) {
	doc := parseHTML(t, sampleHotelPage)
	base, err := url.Parse("https://grandplaza.example.com/")
	require.NoError(t, err)

	links := SameHostLinks(doc, base)

	assert.Contains(t, links, "https://grandplaza.example.com/rooms")
	assert.Contains(t, links, "https://grandplaza.example.com/contacts")
	for _, link := range links {
		assert.NotContains(t, link, "booking.example.org")
		assert.NotContains(t, link, "#")
	}
	// /rooms and /rooms#gallery collapse into one entry
	count := 0
	for _, link := range links {
		if link == "https://grandplaza.example.com/rooms" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
