package utils

import "strconv"

// ParseInt converts string to int, falling back to defaultValue on empty, malformed or non-positive input.
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}

	return result
}

// ParseBool accepts the usual query string spellings of true.
func ParseBool(value string) bool {
	switch value {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	}
	return false
}

// CalculateTotalPages rounds up; an empty result has zero pages.
func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}
