package store

// maxListLimit is a defense-in-depth cap on limit values for list queries.
const maxListLimit = 1000

// defaultListLimit applies when a caller passes no limit.
const defaultListLimit = 50

// clampLimit normalizes a caller-supplied limit into [1, maxListLimit].
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}

	return limit
}
