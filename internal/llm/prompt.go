package llm

import "strings"

// SystemPrompt constrains the model to a bare JSON array.
const SystemPrompt = "You are a JSON-only API. Return only valid JSON arrays. " +
	"Do not include markdown, comments, or explanations. " +
	"Your output must start with '[' and end with ']'."

// BuildExtractionPrompt composes the user message: extraction rules, rows to
// skip, the output contract (line totals, not unit prices), and the invoice
// text. The smaller-of-two-prices and keyword-skip rules are best-effort model
// behavior; the normalizer stays the hard backstop.
func BuildExtractionPrompt(text string) string {
	var b strings.Builder
	b.WriteString(`Extract products from this invoice text. Return ONLY a valid JSON array.

EXTRACTION RULES:
1. Find product names (descriptive text, not codes)
2. Find the TOTAL price for each line (Total TTC column, or the final price on the right)
3. Find quantities (integers, look for "Quantité" column or numbers like "2" before price)
4. When multiple prices appear on a line: use the SMALLER one (it's the discounted price)
5. Extract the TOTAL LINE PRICE, not the unit price - we will calculate unit price later
6. Look for reference codes/SKUs (usually 6-digit numbers like "234964")

SKIP THESE (not products):
- Headers: "Article", "Taille", "Quantité", "Remise", "Prix", "Code"
- Totals: "MONTANT", "TOTAL", "SOUS-TOTAL"
- Shipping: "FRAIS DE LIVRAISON", "Livraison" (code 124025)
- Fees: "dont", "éco-participation", "Eco Part"
- Payment: "CARTE VISA", "Payé par"
- Other: "TVA", "Adresse", "ÉCONOMIE"

OUTPUT FORMAT (JSON array only, no explanation):
[
  {
    "name": "Product Name",
    "description": "size, color, details if present",
    "quantity": 2,
    "totalTTC": 199.80,
    "totalHT": 166.50,
    "reference": "234964"
  }
]

IMPORTANT:
- Return ONLY the JSON array, no markdown, no explanation
- totalTTC = the TOTAL price for the line (quantity × unit price), from "Total TTC" column
- totalHT = the TOTAL HT price if available, from "Total HT" column
- Format prices as decimals: 199.80 not "199,80 €"
- quantity should be the number of items (e.g., 2 chaises = quantity 2)

INVOICE TEXT:
`)
	b.WriteString(text)
	b.WriteString("\n\nJSON OUTPUT:")
	return b.String()
}
