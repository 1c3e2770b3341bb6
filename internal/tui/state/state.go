package state

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// WrapCursor moves cursor by delta and wraps around both ends.
func WrapCursor(cursor, delta, size int) int {
	if size <= 0 {
		return 0
	}
	next := (ClampCursor(cursor, size) + delta) % size
	if next < 0 {
		next += size
	}
	return next
}

// GridColumns is how many cards of cardWidth fit side by side in width.
func GridColumns(width, cardWidth, maxColumns int) int {
	if cardWidth <= 0 || width < cardWidth {
		return 1
	}
	cols := width / cardWidth
	if maxColumns > 0 && cols > maxColumns {
		cols = maxColumns
	}
	return cols
}
