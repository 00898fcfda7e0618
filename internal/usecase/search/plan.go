package search

import "carcare/internal/domain/record"

// planPage distributes one page across the participating kinds and returns
// one window per kind, parallel to totals. The order of totals is the fill
// precedence order.
//
// Every kind first takes up to its base share ceil(pageSize/len(totals)) of
// the page, capped by its remaining rows and by the space left on the page.
// When the page is still short, the fill pass tops kinds up in precedence
// order until the page holds pageSize rows or every kind is exhausted.
//
// Pages are allocated in order from page 1 so that rows a fill moved onto an
// earlier page are never served again: each kind's offset is exactly the
// number of rows it contributed to all earlier pages. A page beyond the data
// yields zero-limit windows.
func planPage(totals []int64, page, pageSize int) []record.Window {
	n := len(totals)
	windows := make([]record.Window, n)
	if n == 0 || page < 1 || pageSize < 1 {
		return windows
	}
	share := int64((pageSize + n - 1) / n)

	remaining := make([]int64, n)
	copy(remaining, totals)
	consumed := make([]int64, n)
	take := make([]int64, n)

	for p := 1; p <= page; p++ {
		left := int64(pageSize)
		for i := 0; i < n; i++ {
			take[i] = min(share, remaining[i], left)
			left -= take[i]
		}
		for i := 0; i < n && left > 0; i++ {
			extra := min(remaining[i]-take[i], left)
			take[i] += extra
			left -= extra
		}

		if p == page {
			for i := 0; i < n; i++ {
				windows[i] = record.Window{Offset: int(consumed[i]), Limit: int(take[i])}
			}
			return windows
		}

		if left == int64(pageSize) {
			// Ran out of rows before reaching the requested page.
			for i := 0; i < n; i++ {
				windows[i] = record.Window{Offset: int(consumed[i])}
			}
			return windows
		}
		for i := 0; i < n; i++ {
			consumed[i] += take[i]
			remaining[i] -= take[i]
		}
	}
	return windows
}
