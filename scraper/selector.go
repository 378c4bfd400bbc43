package scraper

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// ProductSelectors are the CSS selectors for one laptop listing.
// Title, Price and Description are evaluated relative to the Item node.
type ProductSelectors struct {
	Item        string
	Title       string
	Price       string
	Description string
}

// DefaultProductSelectors match the webscraper.io e-commerce test site.
var DefaultProductSelectors = ProductSelectors{
	Item:        ".thumbnail",
	Title:       ".title",
	Price:       ".price",
	Description: ".description",
}

// compiledSelectors holds parsed selectors together with their source text
// so extraction errors can name the selector that failed.
type compiledSelectors struct {
	src         ProductSelectors
	item        cascadia.Selector
	title       cascadia.Selector
	price       cascadia.Selector
	description cascadia.Selector
}

func compileProductSelectors(s ProductSelectors) (*compiledSelectors, error) {
	c := &compiledSelectors{src: s}
	for _, f := range []struct {
		name string
		src  string
		dst  *cascadia.Selector
	}{
		{"item", s.Item, &c.item},
		{"title", s.Title, &c.title},
		{"price", s.Price, &c.price},
		{"description", s.Description, &c.description},
	} {
		sel, err := cascadia.Compile(f.src)
		if err != nil {
			return nil, fmt.Errorf("compile %s selector %q: %w", f.name, f.src, err)
		}
		*f.dst = sel
	}
	return c, nil
}
