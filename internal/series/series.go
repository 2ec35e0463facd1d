// Package series expands a fond's schema dimensions into the series it must hold.
//
// Each assigned schema contributes one dimension. The Year schema is synthetic:
// its items are the years from the fond's creation up to the current year.
// A series is one element of the cartesian product of all dimensions, numbered
// by joining the fond number with the item numbers in assignment order.
package series

import (
	"strconv"
	"strings"
	"time"
)

// YearSchema is the reserved schema whose items are computed, never stored.
const YearSchema = "Year"

const separator = "-"

// Item is one value of a dimension.
type Item struct {
	No   string
	Name string
}

// Dimension is a schema with its items, in the fond's assignment order.
type Dimension struct {
	SchemaNo string
	Items    []Item
}

// IsYear reports whether the dimension is expanded from the fond's creation year.
func (d Dimension) IsYear() bool {
	return d.SchemaNo == YearSchema
}

// Candidate is a series the fond should contain.
type Candidate struct {
	SeriesNo string
	Name     string
}

// ParseYear reads the year from a creation timestamp such as "2022",
// "2022-03-01" or an RFC 3339 value: the integer before the first "-".
func ParseYear(createdAt string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(createdAt), separator)
	year, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// YearItems lists from..to inclusive, each year used as both number and name.
func YearItems(from, to int) []Item {
	if from > to {
		return nil
	}
	items := make([]Item, 0, to-from+1)
	for y := from; y <= to; y++ {
		label := strconv.Itoa(y)
		items = append(items, Item{No: label, Name: label})
	}
	return items
}

// Product folds the dimensions left to right into every combination. The
// first dimension varies slowest. An empty dimension empties the result.
func Product(dims []Dimension) [][]Item {
	if len(dims) == 0 {
		return nil
	}

	combos := [][]Item{{}}
	for _, dim := range dims {
		next := make([][]Item, 0, len(combos)*len(dim.Items))
		for _, prefix := range combos {
			for _, item := range dim.Items {
				combo := make([]Item, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, item))
			}
		}
		combos = next
	}
	return combos
}

// Compose builds the series number and name for one combination.
func Compose(fondNo string, combo []Item) Candidate {
	nos := make([]string, len(combo))
	names := make([]string, len(combo))
	for i, item := range combo {
		nos[i] = item.No
		names[i] = item.Name
	}
	return Candidate{
		SeriesNo: fondNo + separator + strings.Join(nos, separator),
		Name:     strings.Join(names, separator),
	}
}

// Expand resolves Year dimensions against createdAt and now, and drops
// non-Year dimensions that have no items. An unparseable createdAt falls back
// to the current year.
func Expand(createdAt string, now time.Time, dims []Dimension) []Dimension {
	current := now.Year()
	from, ok := ParseYear(createdAt)
	if !ok {
		from = current
	}

	expanded := make([]Dimension, 0, len(dims))
	for _, dim := range dims {
		if dim.IsYear() {
			expanded = append(expanded, Dimension{SchemaNo: dim.SchemaNo, Items: YearItems(from, current)})
			continue
		}
		if len(dim.Items) == 0 {
			continue
		}
		expanded = append(expanded, dim)
	}
	return expanded
}

// Plan returns every series the fond should contain, in product order.
func Plan(fondNo, createdAt string, now time.Time, dims []Dimension) []Candidate {
	combos := Product(Expand(createdAt, now, dims))
	if len(combos) == 0 {
		return nil
	}
	candidates := make([]Candidate, 0, len(combos))
	for _, combo := range combos {
		candidates = append(candidates, Compose(fondNo, combo))
	}
	return candidates
}
