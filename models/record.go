package models

// ProductHeaders is the column schema of the laptop pipelines.
var ProductHeaders = []string{"Title", "Price (USD)", "Price (NGN)", "Description"}

// Product is one laptop listing extracted from a catalogue page.
type Product struct {
	Title       string  `json:"title"`
	PriceUSD    float64 `json:"price_usd"`
	PriceNGN    float64 `json:"price_ngn"`
	Description string  `json:"description"`

	// PriceParsed is false when the price text could not be parsed and both
	// prices fell back to zero.
	PriceParsed bool `json:"price_parsed"`
}

// Row returns the product in ProductHeaders column order.
func (p Product) Row() []any {
	return []any{p.Title, p.PriceUSD, p.PriceNGN, p.Description}
}

// ProductRows converts products to spreadsheet rows.
func ProductRows(products []Product) [][]any {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, p.Row())
	}
	return rows
}

// Table is a header schema plus the rows whose cell count matches it.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// AnyRows converts the table's text rows to spreadsheet rows.
func (t *Table) AnyRows() [][]any {
	rows := make([][]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]any, len(r))
		for i, v := range r {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows
}
