// Package layout derives the physical seat map of an airplane from its
// declared cabin capacity.  Generation is deterministic: the same
// capacity always yields the same ordered label sequence, which is what
// allows capacity resizes to add or remove seats at the tail without
// renumbering the rest of the template.
package layout

import (
	"errors"
	"fmt"
)

// Cabin classes.
const (
	ClassBusiness = "business"
	ClassEconomy  = "economy"
)

// Seats per row for each cabin class.
const (
	BusinessRowWidth = 4
	EconomyRowWidth  = 6
)

var (
	businessColumns = []string{"A", "B", "C", "D"}
	economyColumns  = []string{"A", "B", "C", "D", "E", "F"}
)

// ErrInvalidCapacity is wrapped by all validation failures so callers
// can map them to a 400 with errors.Is.
var ErrInvalidCapacity = errors.New("invalid capacity")

// Label identifies one seat position in the template.
type Label struct {
	Row    uint32 // 1-based row number
	Column string // column letter
	Class  string // "business" or "economy"
}

// String renders the label as row digits followed by the column
// letter, e.g. "12C".
func (l Label) String() string {
	return fmt.Sprintf("%d%s", l.Row, l.Column)
}

// Validate checks that the capacity pair is admissible: both totals
// non-negative, business a multiple of 4 and economy a multiple of 6.
// Totals arrive as ints so that negative values from JSON payloads are
// rejected here rather than silently wrapping.
func Validate(totalBusiness, totalEconomy int) error {
	if totalBusiness < 0 || totalEconomy < 0 {
		return fmt.Errorf("%w: seat totals must be non-negative", ErrInvalidCapacity)
	}
	if totalBusiness%BusinessRowWidth != 0 {
		return fmt.Errorf("%w: business total %d is not a multiple of %d", ErrInvalidCapacity, totalBusiness, BusinessRowWidth)
	}
	if totalEconomy%EconomyRowWidth != 0 {
		return fmt.Errorf("%w: economy total %d is not a multiple of %d", ErrInvalidCapacity, totalEconomy, EconomyRowWidth)
	}
	return nil
}

// Generate produces the full ordered seat map for the given capacity.
// Business rows come first (4 seats per row, columns A–D); economy rows
// follow starting at businessRows+1 (6 seats per row, columns A–F).
func Generate(totalBusiness, totalEconomy int) ([]Label, error) {
	if err := Validate(totalBusiness, totalEconomy); err != nil {
		return nil, err
	}
	labels := make([]Label, 0, totalBusiness+totalEconomy)
	labels = append(labels, businessRange(0, totalBusiness)...)
	labels = append(labels, economyRange(totalBusiness/BusinessRowWidth, 0, totalEconomy)...)
	return labels, nil
}

// Plan describes how to move one cabin class from its current total to
// a new total.  Exactly one of Add/Remove is non-empty per class: a
// grow continues numbering from the current tail, a shrink removes the
// given count of highest-numbered seats.
type Plan struct {
	Add    []Label // seats to insert, in template order
	Remove int     // count of tail seats to delete
}

// Resize computes independent per-class plans for changing an
// airplane's capacity.  Current totals are trusted (they come from the
// stored airplane row); new totals are validated.
func Resize(curBusiness, curEconomy, newBusiness, newEconomy int) (business, economy Plan, err error) {
	if err = Validate(newBusiness, newEconomy); err != nil {
		return Plan{}, Plan{}, err
	}
	switch {
	case newBusiness > curBusiness:
		business.Add = businessRange(curBusiness, newBusiness)
	case newBusiness < curBusiness:
		business.Remove = curBusiness - newBusiness
	}
	// Economy rows are numbered after the business rows of the *new*
	// business total when grown from scratch, but an in-place grow must
	// continue the numbering the existing seats already use, which is
	// anchored to the current business row count.
	switch {
	case newEconomy > curEconomy:
		economy.Add = economyRange(curBusiness/BusinessRowWidth, curEconomy, newEconomy)
	case newEconomy < curEconomy:
		economy.Remove = curEconomy - newEconomy
	}
	return business, economy, nil
}

// businessRange yields business labels for indices [from, to).
func businessRange(from, to int) []Label {
	labels := make([]Label, 0, to-from)
	for i := from; i < to; i++ {
		labels = append(labels, Label{
			Row:    uint32(i/BusinessRowWidth) + 1,
			Column: businessColumns[i%BusinessRowWidth],
			Class:  ClassBusiness,
		})
	}
	return labels
}

// economyRange yields economy labels for indices [from, to), with rows
// offset past the given number of business rows.
func economyRange(businessRows, from, to int) []Label {
	labels := make([]Label, 0, to-from)
	for i := from; i < to; i++ {
		labels = append(labels, Label{
			Row:    uint32(i/EconomyRowWidth) + uint32(businessRows) + 1,
			Column: economyColumns[i%EconomyRowWidth],
			Class:  ClassEconomy,
		})
	}
	return labels
}
