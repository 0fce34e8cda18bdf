package constants

// RecognizedProduct describes one entry of the closed subscription catalog
type RecognizedProduct struct {
	ID          string
	DisplayName string
	HasTrial    bool
}

const (
	ProductWeeklyTrial = "watchtower.weekly.trial"
	ProductYearly      = "watchtower.yearly"
)

// RecognizedProducts is the closed set of product IDs a verified transaction
// may carry. Transactions for anything else never grant entitlement.
var RecognizedProducts = map[string]RecognizedProduct{
	ProductWeeklyTrial: {
		ID:          ProductWeeklyTrial,
		DisplayName: "Weekly (free trial)",
		HasTrial:    true,
	},
	ProductYearly: {
		ID:          ProductYearly,
		DisplayName: "Yearly",
		HasTrial:    false,
	},
}

// RecognizedProductIDs returns the catalog IDs in a stable order
func RecognizedProductIDs() []string {
	return []string{ProductWeeklyTrial, ProductYearly}
}

// IsRecognizedProduct reports whether the ID belongs to the catalog
func IsRecognizedProduct(id string) bool {
	_, ok := RecognizedProducts[id]
	return ok
}
