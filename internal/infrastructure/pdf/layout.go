package pdf

// Vertical positions in millimetres on an A4 portrait page.
const (
	firstRowY        = 150.0
	continuationRowY = 30.0
	rowHeight        = 12.0
	// A row is moved to a new page when it would start below this line.
	pageBottomLimit = 270.0
	// Last printable baseline for the totals block and closing notes.
	pageBottom = 287.0
	// Steps of the totals block, top to bottom.
	totalsRuleGap  = 10.0 // table end to the first rule
	totalsLineStep = 5.0  // subtotal, tax and the second rule
	grandTotalStep = 7.0
	notesGap       = 20.0
	noteLineStep   = 5.0
	// Distance from the end of the item table to the second closing note.
	totalsHeight = totalsRuleGap + 3*totalsLineStep + grandTotalStep + notesGap + noteLineStep
	// Where the totals block starts when it is moved to a fresh page.
	totalsTopY = 20.0
)

type position struct {
	Page int
	Y    float64
}

// layout places n item rows and the totals block. The returned totals
// position is the y at which the block begins.
func layout(n int) (rows []position, totals position) {
	page, y := 1, firstRowY
	rows = make([]position, n)
	for i := range rows {
		if y > pageBottomLimit {
			page++
			y = continuationRowY
		}
		rows[i] = position{Page: page, Y: y}
		y += rowHeight
	}
	if y+totalsHeight > pageBottom {
		page++
		y = totalsTopY
	}
	return rows, position{Page: page, Y: y}
}
