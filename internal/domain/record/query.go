package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidSearchQuery signals invalid search parameters.
var ErrInvalidSearchQuery = errors.New("invalid search query")

// RecordsPerPage is the fixed search page size. Clients cannot change it.
const RecordsPerPage = 10

// maxTermLength caps the free-text search term.
const maxTermLength = 200

// Category selects which record kinds participate in a search.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryTrips    Category = "trips"
	CategoryTaxes    Category = "taxes"
	CategoryServices Category = "services"
)

// ParseCategory validates a category value. Empty input means all kinds.
func ParseCategory(value string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategoryTrips:
		return CategoryTrips, nil
	case CategoryTaxes:
		return CategoryTaxes, nil
	case CategoryServices:
		return CategoryServices, nil
	default:
		return "", fmt.Errorf("%w: unsupported category %q", ErrInvalidSearchQuery, value)
	}
}

// SortOrder defines how each kind's rows are ordered. Date-based orders use
// the kind's own event date (service performed_on, tax valid_to); kinds
// without a meaningful event date fall back to newest.
type SortOrder string

const (
	// SortNewest orders by created_on DESC. Default.
	SortNewest SortOrder = "newest"
	// SortOldest orders by created_on ASC.
	SortOldest SortOrder = "oldest"
	// SortCostAsc orders by cost ASC. Trips without a cost sort last.
	SortCostAsc SortOrder = "cost_asc"
	// SortCostDesc orders by cost DESC. Trips without a cost sort last.
	SortCostDesc SortOrder = "cost_desc"
	// SortDateAsc orders by the kind's event date ascending.
	SortDateAsc SortOrder = "date_asc"
	// SortDateDesc orders by the kind's event date descending.
	SortDateDesc SortOrder = "date_desc"
)

// ParseSortOrder validates a sort value. Empty input means newest first.
func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(value))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortCostAsc:
		return SortCostAsc, nil
	case SortCostDesc:
		return SortCostDesc, nil
	case SortDateAsc:
		return SortDateAsc, nil
	case SortDateDesc:
		return SortDateDesc, nil
	default:
		return "", fmt.Errorf("%w: unsupported sort %q", ErrInvalidSearchQuery, value)
	}
}

// SearchQuery represents one search call. It lives for a single request;
// the engine keeps no state between calls.
type SearchQuery struct {
	UserID   uuid.UUID
	Category Category
	Term     string
	Sort     SortOrder
	Page     int
}

// Normalize validates the query and applies defaults.
func (q *SearchQuery) Normalize() error {
	if q.UserID == uuid.Nil {
		return fmt.Errorf("%w: user is required", ErrInvalidSearchQuery)
	}
	category, err := ParseCategory(string(q.Category))
	if err != nil {
		return err
	}
	q.Category = category
	sort, err := ParseSortOrder(string(q.Sort))
	if err != nil {
		return err
	}
	q.Sort = sort
	q.Term = strings.TrimSpace(q.Term)
	if len(q.Term) > maxTermLength {
		return fmt.Errorf("%w: term must be <= %d characters", ErrInvalidSearchQuery, maxTermLength)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return nil
}

// Filter restricts one kind's rows to an owner and an optional term. An
// empty term matches everything.
type Filter struct {
	OwnerID uuid.UUID
	Term    string
}

// Window is the slice of a sorted, filtered kind fetched for one page.
type Window struct {
	Offset int
	Limit  int
}
