package product

// Record is one validated product extracted from an invoice. PriceTTC and
// PriceHT are UNIT prices, derived by dividing the model-reported line total
// by the resolved quantity; line totals are never stored.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
	PriceTTC    *float64 `json:"priceTTC,omitempty"`
	PriceHT     *float64 `json:"priceHT,omitempty"`
	Reference   string   `json:"reference"`
}
