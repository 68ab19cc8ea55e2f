package grid

// Item is a card to be placed by span
type Item struct {
	ColSpan int
	RowSpan int
}

// Cell is where an item landed
type Cell struct {
	Row     int
	Col     int
	ColSpan int
	RowSpan int
}

// Place runs a sparse row-major auto-placement: each item goes to the first free area
// at or after the cursor left by the previous item, wrapping to the next row when it
// does not fit. It returns one cell per item and the number of rows used.
func Place(items []Item, columns int) ([]Cell, int) {
	if columns < 1 {
		columns = 1
	}
	cells := make([]Cell, len(items))
	occupied := make(map[[2]int]bool)
	free := func(row, col, cs, rs int) bool {
		for r := row; r < row+rs; r++ {
			for c := col; c < col+cs; c++ {
				if occupied[[2]int{r, c}] {
					return false
				}
			}
		}
		return true
	}

	cursorRow, cursorCol := 0, 0
	totalRows := 0
	for i, it := range items {
		cs := clampInt(it.ColSpan, 1, columns)
		rs := it.RowSpan
		if rs < 1 {
			rs = 1
		}

		row, col := cursorRow, cursorCol
		for {
			if col+cs > columns {
				row++
				col = 0
				continue
			}
			if free(row, col, cs, rs) {
				break
			}
			col++
		}

		for r := row; r < row+rs; r++ {
			for c := col; c < col+cs; c++ {
				occupied[[2]int{r, c}] = true
			}
		}
		cells[i] = Cell{Row: row, Col: col, ColSpan: cs, RowSpan: rs}
		cursorRow, cursorCol = row, col+cs
		if row+rs > totalRows {
			totalRows = row + rs
		}
	}
	return cells, totalRows
}
