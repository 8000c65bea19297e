package reports

import "sort"

// Pagination defaults and limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MergeSorted concatenates the per-source lists and orders them newest first.
// Records without a timestamp go last; equal timestamps keep their input order.
func MergeSorted(lists ...[]TransactionRecord) []TransactionRecord {
	n := 0
	for _, l := range lists {
		n += len(l)
	}

	merged := make([]TransactionRecord, 0, n)
	for _, l := range lists {
		merged = append(merged, l...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i].DateTime, merged[j].DateTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return merged
}

// Page is one slice of an in-memory list plus its position metadata.
type Page[T any] struct {
	Items       []T
	Page        int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Paginate slices items for a 1-based page. Out-of-range pages come back empty.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	// Compare page counts before multiplying so huge page numbers cannot overflow.
	start := total
	if page <= totalPages {
		start = (page - 1) * pageSize
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:       items[start:end],
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}
}
