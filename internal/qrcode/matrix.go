package qrcode

// matrix is a QR code's module grid under construction. dark/reserved are
// parallel grids: reserved marks function patterns (finder, timing,
// alignment, format/version reservations) that data placement and masking
// must not touch.
type matrix struct {
	size     int
	dark     [][]bool
	reserved [][]bool
}

func newMatrix(size int) *matrix {
	m := &matrix{size: size}
	m.dark = make([][]bool, size)
	m.reserved = make([][]bool, size)
	for i := range m.dark {
		m.dark[i] = make([]bool, size)
		m.reserved[i] = make([]bool, size)
	}
	return m
}

func (m *matrix) set(r, c int, dark bool) {
	m.dark[r][c] = dark
	m.reserved[r][c] = true
}

func (m *matrix) placeFinder(top, left int) {
	for dr := -1; dr <= 7; dr++ {
		for dc := -1; dc <= 7; dc++ {
			r, c := top+dr, left+dc
			if r < 0 || r >= m.size || c < 0 || c >= m.size {
				continue
			}
			ring := max(abs(dr-3), abs(dc-3))
			// Finder pattern: 7x7 with outer ring dark, one ring light,
			// 3x3 center dark; separator ring (dr/dc == -1 or 7) is light.
			var dark bool
			switch {
			case dr == -1 || dr == 7 || dc == -1 || dc == 7:
				dark = false
			default:
				dark = ring != 2
			}
			m.set(r, c, dark)
		}
	}
}

func (m *matrix) placeTiming() {
	for i := 8; i < m.size-8; i++ {
		if !m.reserved[6][i] {
			m.set(6, i, i%2 == 0)
		}
		if !m.reserved[i][6] {
			m.set(i, 6, i%2 == 0)
		}
	}
}

func (m *matrix) placeAlignment(coords []int) {
	for _, r := range coords {
		for _, c := range coords {
			if overlapsFinder(r, c, m.size) {
				continue
			}
			for dr := -2; dr <= 2; dr++ {
				for dc := -2; dc <= 2; dc++ {
					ring := max(abs(dr), abs(dc))
					m.set(r+dr, c+dc, ring != 1)
				}
			}
		}
	}
}

func overlapsFinder(r, c, size int) bool {
	return (r <= 8 && c <= 8) || (r <= 8 && c >= size-9) || (r >= size-9 && c <= 8)
}

func (m *matrix) placeDarkModule() {
	m.set(m.size-8, 8, true)
}

// reserveFormatAreas marks the two redundant format-info strips as
// reserved, without writing their values yet (writeFormatInfo fills them in
// once the mask pattern is chosen).
func (m *matrix) reserveFormatAreas() {
	for i := 0; i <= 8; i++ {
		if i != 6 {
			m.reserved[8][i] = true
			m.reserved[i][8] = true
		}
	}
	for i := 0; i < 8; i++ {
		m.reserved[8][m.size-1-i] = true
		m.reserved[m.size-1-i][8] = true
	}
}

// writeFormatInfo writes the 15-bit format string (level M + chosen mask)
// into both redundant strips, per ISO/IEC 18004 Annex C's placement figure.
func (m *matrix) writeFormatInfo(bits uint32) {
	posA := [15][2]int{
		{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 7}, {8, 8},
		{7, 8}, {5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
	}
	size := m.size
	posB := [15][2]int{
		{size - 1, 8}, {size - 2, 8}, {size - 3, 8}, {size - 4, 8}, {size - 5, 8}, {size - 6, 8}, {size - 7, 8},
		{8, size - 8}, {8, size - 7}, {8, size - 6}, {8, size - 5}, {8, size - 4}, {8, size - 3}, {8, size - 2}, {8, size - 1},
	}
	for i := 0; i < 15; i++ {
		bit := (bits>>uint(14-i))&1 == 1
		m.dark[posA[i][0]][posA[i][1]] = bit
		m.dark[posB[i][0]][posB[i][1]] = bit
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
