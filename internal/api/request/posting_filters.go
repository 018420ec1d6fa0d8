package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// ParsePostingFilters extracts and validates revenue posting filters from query parameters.
// All parameters are optional.
//
// Validation rules:
//   - startDate/endDate: Must be valid date/datetime strings (YYYY-MM-DD or RFC3339)
//   - startDate must not be after endDate
//   - sortDir: Must be "asc" or "desc" (defaults to "desc")
//   - perPage: Must be between 1 and 100 (defaults to 50)
func ParsePostingFilters(startDateParam, endDateParam, sortDirParam, perPageParam string) (*model.PostingFilters, error) {
	filters := &model.PostingFilters{}

	if startDateParam != "" {
		startTime, err := parseFilterTime(startDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date format: %w", err)
		}
		filters.StartDate = &startTime
	}

	if endDateParam != "" {
		endTime, err := parseFilterTime(endDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date format: %w", err)
		}
		filters.EndDate = &endTime
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, fmt.Errorf("invalid date range: start_date is after end_date")
	}

	if sortDirParam != "" {
		sortDir := strings.ToLower(sortDirParam)
		if sortDir != "asc" && sortDir != "desc" {
			return nil, fmt.Errorf("invalid sort_dir: must be 'asc' or 'desc'")
		}
		filters.SortDir = sortDir
	} else {
		filters.SortDir = "desc"
	}

	if perPageParam != "" {
		perPage, err := strconv.Atoi(perPageParam)
		if err != nil {
			return nil, fmt.Errorf("invalid per_page: must be a number")
		}
		if perPage < 1 || perPage > 100 {
			return nil, fmt.Errorf("invalid per_page: must be between 1 and 100")
		}
		filters.PerPage = perPage
	} else {
		filters.PerPage = 50
	}

	return filters, nil
}

// ParseDate parses a YYYY-MM-DD or RFC3339 date. An empty string yields fallback.
func ParseDate(str string, fallback time.Time) (time.Time, error) {
	if str == "" {
		return fallback, nil
	}
	return parseFilterTime(str)
}

// parseFilterTime accepts YYYY-MM-DD, RFC3339, and RFC3339 with milliseconds formats.
func parseFilterTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
