package cms

import (
	"fmt"
	"net/url"
	"sort"
)

// Query builds the CMS's nested filter/populate/pagination query syntax:
//
//	filters[title][$eq]=Dune
//	populate=*
//	pagination[page]=2&pagination[pageSize]=25
//	sort=title:asc
//
// The two frontends assembled these strings by hand at every call site; this
// is the single place the convention lives now.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// FilterEq adds an equality filter on a field.
func (q *Query) FilterEq(field, value string) *Query {
	q.values.Set(fmt.Sprintf("filters[%s][$eq]", field), value)
	return q
}

// Filters adds equality filters from a caller-supplied map. Keys are sorted
// so the encoded query is deterministic.
func (q *Query) Filters(filters map[string]string) *Query {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.FilterEq(k, filters[k])
	}
	return q
}

// PopulateAll asks the CMS to expand every relation on the record.
func (q *Query) PopulateAll() *Query {
	q.values.Set("populate", "*")
	return q
}

// Populate asks the CMS to expand one named relation.
func (q *Query) Populate(relation string) *Query {
	q.values.Add(fmt.Sprintf("populate[%s]", relation), "true")
	return q
}

// Page sets pagination. Zero values are left out so the CMS applies its own
// defaults.
func (q *Query) Page(page, pageSize int) *Query {
	if page > 0 {
		q.values.Set("pagination[page]", fmt.Sprintf("%d", page))
	}
	if pageSize > 0 {
		q.values.Set("pagination[pageSize]", fmt.Sprintf("%d", pageSize))
	}
	return q
}

// Sort sets the sort expression, e.g. "title:asc".
func (q *Query) Sort(expr string) *Query {
	q.values.Set("sort", expr)
	return q
}

// Values returns the accumulated query parameters.
func (q *Query) Values() url.Values {
	return q.values
}
