// Package listing implements the shared list-view behavior: a page-size
// override parameter that is remembered in the requester's session, and
// offset pagination.
package listing

import "strconv"

// PageSizeParam is both the query parameter and the session key for the
// remembered page size.
const PageSizeParam = "elems_on_page"

// PageRequest binds the pagination query parameters common to all lists.
type PageRequest struct {
	Page        int    `form:"page"`
	ElemsOnPage string `form:"elems_on_page"`
}

// ResolvePageSize applies the page-size override rules. raw is the query
// parameter value ("" when absent), remembered is the session's stored value
// (nil when unset).
//
// A valid non-negative integer is used for this request and returned in
// persist so the caller stores it in the session. An invalid value is
// ignored entirely: the session is left untouched and the remembered or
// default size is used. Zero is remembered but falls back to the default
// when applied, since a zero-row page is never useful.
func ResolvePageSize(raw string, remembered *int, def int) (size int, persist *int) {
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			persist = &n
			if n > 0 {
				return n, persist
			}
			return def, persist
		}
	}

	if remembered != nil && *remembered > 0 {
		return *remembered, nil
	}
	return def, nil
}

// Offset converts a 1-based page number to a row offset.
func Offset(page, pageSize int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageSize
}
