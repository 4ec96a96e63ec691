package service

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const maxDescriptionRunes = 500

// plainDescription strips any markup from a listing description, collapses
// whitespace and truncates the result to maxDescriptionRunes.
func plainDescription(description string) string {
	text := description
	if strings.ContainsAny(text, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err != nil {
			log.Debugf("Failed to parse description markup, using raw text: %v", err)
		} else {
			var parts []string
			collectText(doc.Selection, &parts)
			text = strings.Join(parts, " ")
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	return truncateRunes(text, maxDescriptionRunes)
}

// collectText appends every text node under s in document order, skipping
// script and style contents.
func collectText(s *goquery.Selection, parts *[]string) {
	s.Contents().Each(func(i int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			*parts = append(*parts, c.Text())
		case "script", "style":
		default:
			collectText(c, parts)
		}
	})
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
