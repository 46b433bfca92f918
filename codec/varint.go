package codec

import "github.com/benjamin-larsen/barewire/internal/cursor"

// EncodeUInt writes v as unsigned LEB128: 7-bit groups least-significant
// first, high bit set on every byte but the last.
func EncodeUInt(w *cursor.Writer, v uint64) error {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			if err := w.WriteByte(b | 0x80); err != nil {
				return err
			}
			continue
		}
		return w.WriteByte(b)
	}
}

// DecodeUInt reads up to 10 groups (70 bits); a value needing an 11th
// group (the 10th byte still carrying a continuation bit) is
// DecodingError("uint overflow"). 2^64-1 is the largest representable
// value and takes exactly 10 bytes.
func DecodeUInt(r *cursor.Reader) (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < 10; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, decErr("truncated uint: %v", err)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, decErr("uint overflow")
}

// EncodeInt zigzag-encodes n then writes it as an unsigned LEB128 varint.
func EncodeInt(w *cursor.Writer, n int64) error {
	u := uint64(n<<1) ^ uint64(n>>63)
	return EncodeUInt(w, u)
}

// DecodeInt reads an unsigned LEB128 varint and un-zigzags it.
func DecodeInt(r *cursor.Reader) (int64, error) {
	u, err := DecodeUInt(r)
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}
