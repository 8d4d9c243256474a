package receipt

// Item is a single line item on a receipt.
type Item struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"` // decimal dollar amount, e.g. "6.49"
}

// Receipt represents a submitted retail receipt. Price and Total stay in
// their wire form; parseAmount turns them into exact decimals. Total is
// never checked against the sum of item prices.
type Receipt struct {
	Retailer     string `json:"retailer"`
	PurchaseDate string `json:"purchaseDate"` // YYYY-MM-DD
	PurchaseTime string `json:"purchaseTime"` // HH:MM, 24-hour
	Items        []Item `json:"items"`
	Total        string `json:"total"` // decimal dollar amount, e.g. "35.35"
}

// StoredReceipt is an accepted Receipt plus the id assigned to it on
// insertion. Immutable once stored.
type StoredReceipt struct {
	ID string `json:"id"`
	Receipt
}
