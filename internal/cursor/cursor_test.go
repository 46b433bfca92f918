package cursor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderBounds(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	b, err := r.ReadExact(3)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)

	_, err = r.ReadByte()
	require.Error(t, err)
	var oob *OutOfBoundsError
	require.ErrorAs(t, err, &oob)
}

func TestReaderLittleEndian(t *testing.T) {
	r := NewReader([]byte{0x78, 0x56, 0x34, 0x12})
	v, err := r.ReadU32LE()
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), v)
}

func TestWriterFixedOverflow(t *testing.T) {
	w := NewFixedWriter(make([]byte, 0, 2))
	require.NoError(t, w.WriteByte(1))
	require.NoError(t, w.WriteByte(2))
	require.Error(t, w.WriteByte(3))
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteU32LE(0x12345678))
	require.NoError(t, w.WriteF64LE(3.5))
	r := NewReader(w.Bytes())
	u, err := r.ReadU32LE()
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), u)
	f, err := r.ReadF64LE()
	require.NoError(t, err)
	require.Equal(t, 3.5, f)
}
