// Package qrcode implements spec.md §6's generate_remote_qr_code: a
// self-contained QR Code encoder rendered to a PNG data-URI. spec.md names
// the operation but gives no algorithm, and no third-party QR library
// exists anywhere in the retrieved example pack (see DESIGN.md) — this is
// the one domain component legitimately built on the standard library's
// image/image/png, per SPEC_FULL.md §4.
//
// Supports QR versions 1-6, error-correction level M, byte mode — ample
// headroom for the one string this package ever encodes: a
// "http://host:port/token" pairing URL.
package qrcode

// GF(256) arithmetic over the QR code's primitive polynomial x^8+x^4+x^3+x^2+1 (0x11D).
var (
	gfExp [512]byte
	gfLog [256]byte
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfLog[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= 0x11D
		}
	}
	for i := 255; i < 512; i++ {
		gfExp[i] = gfExp[i-255]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

// rsGeneratorPoly returns the Reed-Solomon generator polynomial of degree
// ecCount, coefficients highest-degree first.
func rsGeneratorPoly(ecCount int) []byte {
	poly := []byte{1}
	for i := 0; i < ecCount; i++ {
		poly = polyMulMonomial(poly, 1, gfExp[i])
	}
	return poly
}

// polyMulMonomial multiplies poly by (x + root), where root is given as its
// GF(256) element value (coeff is always 1 for QR's generator construction).
func polyMulMonomial(poly []byte, coeff, root byte) []byte {
	out := make([]byte, len(poly)+1)
	for i, c := range poly {
		out[i] ^= gfMul(c, root)
		out[i+1] ^= gfMul(c, coeff)
	}
	return out
}

// rsEncode computes the ecCount error-correction codewords for data.
func rsEncode(data []byte, ecCount int) []byte {
	gen := rsGeneratorPoly(ecCount)
	remainder := make([]byte, len(data)+ecCount)
	copy(remainder, data)

	for i := 0; i < len(data); i++ {
		coeff := remainder[i]
		if coeff == 0 {
			continue
		}
		for j, g := range gen {
			remainder[i+j] ^= gfMul(g, coeff)
		}
	}
	return remainder[len(data):]
}
