package utils

// CalculateTotalPages derives the page count for trip listings from a
// repository COUNT and the requested page size. Zero totals and
// non-positive page sizes yield zero pages.
func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// CalculateOffset turns a one-based page number into the SQL OFFSET
// used by the trip queries. Pages below one clamp to the first page.
func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}
