package domain

// CampusInventory is the count of lendable copies of a book held at one
// campus. Counts are mutated only through the loan lifecycle.
type CampusInventory struct {
	Campus    string `json:"campus"`
	Available int    `json:"available"`
}

type Book struct {
	ID          string            `json:"id"`
	CatalogCode string            `json:"catalog_code"`
	Title       string            `json:"title"`
	Author      string            `json:"author"`
	Genre       string            `json:"genre"`
	Inventory   []CampusInventory `json:"inventory"`
	CreatedOn   string            `json:"created_on"`
	UpdatedOn   string            `json:"updated_on"`
}

// AvailableAt returns the available unit count for a campus, 0 if the campus
// has no inventory record.
func (b *Book) AvailableAt(campus string) int {
	for _, inv := range b.Inventory {
		if inv.Campus == campus {
			return inv.Available
		}
	}
	return 0
}
