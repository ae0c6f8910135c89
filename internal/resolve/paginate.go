package resolve

// Page slices items by offset and limit. A limit of zero means "no limit";
// offsets past the end yield an empty page. The total is always the
// pre-slice length so callers can report it alongside the page.
func Page[T any](items []T, limit, offset int) (page []T, total int) {
	total = len(items)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []T{}, total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], total
}
