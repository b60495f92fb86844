package domain

// Item is a single checkable entry nested inside a List. Items never exist
// outside their parent list document.
type Item struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// List is the full read model of one stored todo list document.
type List struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// ListSummary is the enumeration projection of a List. ItemCount is computed
// from the stored items at read time and never persisted.
type ListSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}
