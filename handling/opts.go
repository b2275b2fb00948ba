package handling

import (
	"net/http"
	"pizzeria_server/structs"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseMenuOptions parses HTTP query parameters into MenuOptions
func ParseMenuOptions(r *http.Request) (structs.MenuOptions, error) {
	query := r.URL.Query()
	opts := structs.MenuOptions{}

	if len(query) == 0 {
		return opts, nil
	}

	var err error
	if v := query.Get("vegetarian"); v != "" {
		if opts.VegetarianOnly, err = strconv.ParseBool(v); err != nil {
			return opts, err
		}
	}

	if v := query.Get("vegan"); v != "" {
		if opts.VeganOnly, err = strconv.ParseBool(v); err != nil {
			return opts, err
		}
	}

	opts.Category = strings.ToLower(strings.TrimSpace(query.Get("category")))
	opts.Search = strings.TrimSpace(query.Get("search"))

	return opts, nil
}

// ParsePagination reads page and page_size, falling back to the defaults
// when a value is missing or not a positive number.
func ParsePagination(r *http.Request) (page, pageSize int) {
	page, pageSize = 1, 20

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = min(v, 100)
	}
	return page, pageSize
}

// ParseUUIDParam parses a path parameter that must be a UUID.
func ParseUUIDParam(value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	return id, err == nil
}

// ParseIndexParam parses a non-negative cart line index.
func ParseIndexParam(value string) (int, bool) {
	index, err := strconv.Atoi(value)
	return index, err == nil && index >= 0
}
