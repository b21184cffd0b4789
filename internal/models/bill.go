package models

// LineItem is one priced, quantified entry on a bill.
// Items are immutable once extracted: they are minted by the extraction
// step, carried through the workflow token, and only ever read afterwards.
type LineItem struct {
	// Name is the item description as it appears on the receipt.
	Name string `json:"name"`

	// Quantity is the number of units purchased. Always positive.
	Quantity int `json:"qty"`

	// UnitPrice is the pre-discount price of a single unit.
	UnitPrice float64 `json:"price"`
}

// LineTotal returns the full cost of the line: quantity times unit price.
func (it LineItem) LineTotal() float64 {
	return float64(it.Quantity) * it.UnitPrice
}

// SplitMode selects how a bill's cost is divided among participants.
type SplitMode int

const (
	// SplitProportional divides each item by its per-participant shares.
	SplitProportional SplitMode = iota

	// SplitEven divides the bill total equally, ignoring shares.
	SplitEven
)

func (m SplitMode) String() string {
	switch m {
	case SplitEven:
		return "even"
	default:
		return "proportional"
	}
}

// ShareMatrix is the per-item, per-participant fractional ownership grid.
// Rows index items, columns index participants in list order. Shares are
// free-form non-negative fractions; rows are deliberately not required to
// sum to 1, so a row can over- or under-allocate its item.
type ShareMatrix [][]float64

// At returns the share at (item, participant), or 0 when either index
// falls outside the matrix. Callers never need to bounds-check.
func (m ShareMatrix) At(item, participant int) float64 {
	if item < 0 || item >= len(m) {
		return 0
	}
	row := m[item]
	if participant < 0 || participant >= len(row) {
		return 0
	}
	return row[participant]
}
