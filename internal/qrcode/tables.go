package qrcode

// versionSpec describes one supported version's error-correction block
// layout at level M, per ISO/IEC 18004's published tables.
type versionSpec struct {
	size        int // module grid width/height
	ecPerBlock  int
	g1Blocks    int
	g1DataCount int
	g2Blocks    int
	g2DataCount int
	alignCoords []int // alignment pattern center coordinates, both axes
}

var versionSpecs = map[int]versionSpec{
	1: {size: 21, ecPerBlock: 10, g1Blocks: 1, g1DataCount: 16, alignCoords: nil},
	2: {size: 25, ecPerBlock: 16, g1Blocks: 1, g1DataCount: 28, alignCoords: []int{6, 18}},
	3: {size: 29, ecPerBlock: 26, g1Blocks: 1, g1DataCount: 44, alignCoords: []int{6, 22}},
	4: {size: 33, ecPerBlock: 18, g1Blocks: 2, g1DataCount: 32, alignCoords: []int{6, 26}},
	5: {size: 37, ecPerBlock: 24, g1Blocks: 2, g1DataCount: 43, alignCoords: []int{6, 30}},
	6: {size: 41, ecPerBlock: 16, g1Blocks: 4, g1DataCount: 27, alignCoords: []int{6, 34}},
}

// totalDataCodewords returns the number of data codewords (before EC) this
// version/level layout carries.
func (v versionSpec) totalDataCodewords() int {
	return v.g1Blocks*v.g1DataCount + v.g2Blocks*v.g2DataCount
}

// maxByteCapacity returns the largest byte-mode message this version can
// carry, accounting for the mode indicator and 8-bit character count
// indicator overhead (versions 1-9 use an 8-bit count field).
func (v versionSpec) maxByteCapacity() int {
	bits := v.totalDataCodewords()*8 - 4 - 8
	if bits < 0 {
		return 0
	}
	return bits / 8
}

// chooseVersion returns the smallest supported version that can carry
// dataLen bytes in byte mode at error-correction level M.
func chooseVersion(dataLen int) (int, bool) {
	for v := 1; v <= 6; v++ {
		if versionSpecs[v].maxByteCapacity() >= dataLen {
			return v, true
		}
	}
	return 0, false
}

// formatInfoBits returns the 15-bit (BCH-encoded, mask-XORed) format
// information string for error-correction level M (binary 00) and the
// given mask pattern (0-7), per ISO/IEC 18004 Annex C.
func formatInfoBits(mask int) uint32 {
	const ecLevelM = 0b00
	data := uint32(ecLevelM<<3 | mask)
	bch := data << 10
	gen := uint32(0b10100110111)
	for i := 14; i >= 10; i-- {
		if bch&(1<<uint(i)) != 0 {
			bch ^= gen << uint(i-10)
		}
	}
	full := (data << 10) | bch
	return full ^ 0b101010000010010
}
