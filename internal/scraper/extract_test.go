package scraper

import "testing"

func TestExtractBlocks(t *testing.T) {
	html := `
	<html><body>
	<div class="org-block">
		<h3>Acme Shelter</h3>
		<p class="address">1 Main St, Springfield, IL 62704</p>
		<span class="phone">(555) 111-2222</span>
		<p class="description">Emergency beds for adults.</p>
		<a href="https://acme-shelter.example.org">Website</a>
	</div>
	<div class="org-block">
		<h3>Beacon Pantry</h3>
		<span class="category">Food</span>
		<p class="address">99 Oak Ave, Dayton, OH 45402</p>
	</div>
	</body></html>`

	candidates := Extract(html, Defaults{Category: "Housing"})
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Name != "Acme Shelter" {
		t.Errorf("name = %q", first.Name)
	}
	if first.Category != "Housing" {
		t.Errorf("default category not applied: %q", first.Category)
	}
	if first.Address != "1 Main St, Springfield, IL 62704" {
		t.Errorf("address = %q", first.Address)
	}
	if first.Phone != "(555) 111-2222" {
		t.Errorf("phone = %q", first.Phone)
	}
	if first.Website != "https://acme-shelter.example.org" {
		t.Errorf("website = %q", first.Website)
	}
	if first.City != "Springfield" {
		t.Errorf("city from address = %q", first.City)
	}

	second := candidates[1]
	if second.Category != "Food" {
		t.Errorf("inline category should win over default, got %q", second.Category)
	}
}

func TestExtractBlocksDropsNameless(t *testing.T) {
	html := `
	<div class="org-block"><p class="address">1 Main St</p></div>
	<div class="org-block"><h2>Named Org</h2></div>`

	candidates := Extract(html, Defaults{})
	if len(candidates) != 1 || candidates[0].Name != "Named Org" {
		t.Fatalf("expected only the named block, got %+v", candidates)
	}
}

func TestExtractBlocksDeduplicatesByName(t *testing.T) {
	html := `
	<div class="org-block"><h2>Same Org</h2></div>
	<div class="org-block"><h2>Same Org</h2></div>`

	candidates := Extract(html, Defaults{})
	if len(candidates) != 1 {
		t.Fatalf("expected deduplication, got %d candidates", len(candidates))
	}
}

func TestExtractHeadingsFallback(t *testing.T) {
	html := `
	<html><body>
	<section>
		<h2>Community Clinic</h2>
		<p>Open weekdays.</p>
		<p>450 Pine St, Portland, OR 97205</p>
		<p>Call 503-555-1234 to schedule.</p>
	</section>
	</body></html>`

	candidates := Extract(html, Defaults{Category: "Health", City: "Portland"})
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}

	c := candidates[0]
	if c.Name != "Community Clinic" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Category != "Health" {
		t.Errorf("category = %q", c.Category)
	}
	if c.Address != "450 Pine St, Portland, OR 97205" {
		t.Errorf("address = %q", c.Address)
	}
	if c.Phone != "503-555-1234" {
		t.Errorf("phone = %q", c.Phone)
	}
	if c.City != "Portland" {
		t.Errorf("city = %q", c.City)
	}
}

func TestExtractBlocksWinOverHeadings(t *testing.T) {
	// A page with both block markup and loose headings must be claimed
	// by the block strategy alone.
	html := `
	<h1>Page Title</h1>
	<div class="resource"><h3>Real Org</h3></div>`

	candidates := Extract(html, Defaults{})
	if len(candidates) != 1 || candidates[0].Name != "Real Org" {
		t.Fatalf("block strategy should claim the page, got %+v", candidates)
	}
}

func TestExtractEmptyPage(t *testing.T) {
	if got := Extract("<html><body><p>nothing here</p></body></html>", Defaults{}); len(got) != 0 {
		t.Fatalf("expected no candidates, got %+v", got)
	}
}
