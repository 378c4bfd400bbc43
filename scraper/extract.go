package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/sheetscrape/cleaner"
	"github.com/use-agent/sheetscrape/models"
)

// extractProduct reads one laptop listing from a candidate node. A missing
// title or description is a *models.MissingFieldError; a missing or
// unparsable price falls back to zero for both currencies.
func extractProduct(item *goquery.Selection, sels *compiledSelectors, rate float64, symbol string) (models.Product, error) {
	title, ok := fieldText(item, sels.title)
	if !ok {
		return models.Product{}, &models.MissingFieldError{Field: "title", Selector: sels.src.Title}
	}
	description, ok := fieldText(item, sels.description)
	if !ok {
		return models.Product{}, &models.MissingFieldError{Field: "description", Selector: sels.src.Description}
	}

	priceText, _ := fieldText(item, sels.price)
	amount := cleaner.ParsePrice(priceText, symbol)
	usd, ngn := cleaner.ConvertPrice(amount, rate)

	return models.Product{
		Title:       title,
		PriceUSD:    usd,
		PriceNGN:    ngn,
		Description: description,
		PriceParsed: amount.OK,
	}, nil
}

// fieldText returns the trimmed text of the first descendant matching sel.
func fieldText(item *goquery.Selection, sel cascadia.Selector) (string, bool) {
	node := item.FindMatcher(sel).First()
	if node.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(node.Text()), true
}
