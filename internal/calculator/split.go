// Package calculator computes per-participant owed amounts for a bill.
// Everything here is pure: same inputs always produce the same totals,
// so callers can safely recompute on a re-rendered request.
package calculator

import (
	"errors"
	"fmt"

	"github.com/coenradina/splitbill/internal/models"
)

// ErrInvalidRequest marks split requests whose shape makes the
// computation meaningless, e.g. an empty participant list.
var ErrInvalidRequest = errors.New("invalid split request")

// Totals computes how much each participant owes.
//
// In even mode the bill total is divided equally among participants and
// the share matrix is ignored. In proportional mode each participant
// owes share × line total for every item; shares are taken as given and
// are NOT normalized, so a row that does not sum to 1 over- or
// under-allocates its item.
//
// Amounts stay at full float64 precision; rounding to display precision
// is the caller's concern, so per-participant rounding error never
// compounds. An empty item list yields all-zero totals.
func Totals(items []models.LineItem, participants []string, mode models.SplitMode, shares models.ShareMatrix) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidRequest)
	}

	totals := make(map[string]float64, len(participants))
	for _, p := range participants {
		totals[p] = 0
	}

	if mode == models.SplitEven {
		var billTotal float64
		for _, it := range items {
			billTotal += it.LineTotal()
		}
		perPerson := billTotal / float64(len(participants))
		for name := range totals {
			totals[name] = perPerson
		}
		return totals, nil
	}

	for i, it := range items {
		lineTotal := it.LineTotal()
		for j, name := range participants {
			totals[name] += shares.At(i, j) * lineTotal
		}
	}
	return totals, nil
}
