// Package scraper turns third-party directory HTML into resource
// creation candidates. It is a best-effort heuristic over goquery
// selectors and regexes: bad markup drops or mis-attributes fields, it
// never fails the whole page.
package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Candidate is one extracted listing. Zero or more come out of a page;
// anything without a name has already been discarded.
type Candidate struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"descriptions,omitempty"`
	City        string `json:"city,omitempty"`
}

// Defaults fill fields the markup does not carry, typically the search
// terms that produced the page.
type Defaults struct {
	Category string
	City     string
}

// A strategy inspects the document and either claims it (returning one
// or more candidates) or passes (returning none). Strategies are tried
// in order; the first non-empty result wins, which keeps each one
// testable in isolation.
type strategy func(doc *goquery.Document, defaults Defaults) []Candidate

var strategies = []strategy{
	extractBlocks,
	extractHeadings,
}

const (
	blockSelector   = `.org-block, .resource, .organization, [class*="org"]`
	headingSelector = "h1, h2, h3, h4"
	nameSelector    = "h1, h2, h3, h4, .organization-name, .program-name, .name, .title"
	addressSelector = `.address, .location, [itemprop="address"]`
	phoneSelector   = `.phone, .contact-phone, [itemprop="telephone"]`
	descSelector    = ".description, .summary, .desc"
)

// Extract runs the strategy cascade over raw HTML. It returns however
// many candidates the first matching strategy produced; an unparseable
// or unrecognized page simply yields none.
func Extract(html string, defaults Defaults) []Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	for _, extract := range strategies {
		if candidates := extract(doc, defaults); len(candidates) > 0 {
			return candidates
		}
	}
	return nil
}

// extractBlocks handles pages whose listings follow conventional
// class-name patterns for a resource block.
func extractBlocks(doc *goquery.Document, defaults Defaults) []Candidate {
	var candidates []Candidate
	seen := map[string]bool{}

	doc.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		name := text(block.Find(nameSelector).First())
		if name == "" || seen[name] {
			return
		}
		seen[name] = true

		candidate := Candidate{
			Name:        name,
			Category:    firstNonEmpty(text(block.Find(".category, .type").First()), defaults.Category),
			Address:     text(block.Find(addressSelector).First()),
			Phone:       text(block.Find(phoneSelector).First()),
			Description: text(block.Find(descSelector).First()),
		}

		if link := block.Find(`a[href^="http"]`).First(); link.Length() > 0 {
			candidate.Website, _ = link.Attr("href")
		}

		candidate.City = firstNonEmpty(
			text(block.Find(".city").First()),
			cityFromAddress(candidate.Address),
			defaults.City,
		)

		candidates = append(candidates, candidate)
	})

	return candidates
}

// extractHeadings is the fallback for unknown markup: every heading
// anchors a candidate's name, and the heading's parent container is
// scanned for an address-like paragraph and a fixed-format phone
// number.
func extractHeadings(doc *goquery.Document, defaults Defaults) []Candidate {
	var candidates []Candidate
	seen := map[string]bool{}

	doc.Find(headingSelector).Each(func(_ int, heading *goquery.Selection) {
		name := text(heading)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true

		container := heading.Parent()

		var address string
		container.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			if line := text(p); looksLikeAddress(line) {
				address = line
				return false
			}
			return true
		})

		phone := phonePattern.FindString(container.Text())

		candidates = append(candidates, Candidate{
			Name:     name,
			Category: defaults.Category,
			Address:  address,
			Phone:    phone,
			City:     firstNonEmpty(cityFromAddress(address), defaults.City),
		})
	})

	return candidates
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
