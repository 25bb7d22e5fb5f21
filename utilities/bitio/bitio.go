// Package bitio packs and unpacks integers of up to 32 bits into a byte
// stream, least significant bit first.
//
// The first value written occupies the lowest bits of the first byte. Values
// may straddle byte boundaries; a value written with n bits is always read
// back with n bits, so the writer and reader only need to agree on the order
// and width of fields.
package bitio

import (
	"fmt"

	"github.com/dargueta/worldpack"
)

// MaxFieldBits is the widest field that can be written or read in one call.
const MaxFieldBits = 32

// Writer accumulates bits and appends whole bytes to an internal buffer.
type Writer struct {
	buf []byte
	// bits holds pending bits in its low-order end. Only the low `nbits` bits
	// are valid and nbits is always < 8 between calls.
	bits  uint64
	nbits uint
}

// NewWriter returns a Writer with room for `sizeHint` bytes before it needs to
// grow its buffer.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// WriteBits appends the low `n` bits of `value` to the stream. Bits of `value`
// above `n` are ignored.
func (w *Writer) WriteBits(value uint32, n uint) {
	if n > MaxFieldBits {
		panic(fmt.Sprintf("can't write %d bits at once, max is %d", n, MaxFieldBits))
	}
	mask := uint64(1)<<n - 1
	w.bits |= (uint64(value) & mask) << w.nbits
	w.nbits += n
	for w.nbits >= 8 {
		w.buf = append(w.buf, byte(w.bits))
		w.bits >>= 8
		w.nbits -= 8
	}
}

// Flush emits any partially filled byte, padding the unused high bits with
// zeros. Calling it when the stream is byte-aligned does nothing.
func (w *Writer) Flush() {
	if w.nbits > 0 {
		w.buf = append(w.buf, byte(w.bits))
		w.bits = 0
		w.nbits = 0
	}
}

// Bytes returns the bytes emitted so far. Pending bits that don't fill a whole
// byte aren't included until [Writer.Flush] is called.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// BitsWritten gives the total number of bits written, including pending ones.
func (w *Writer) BitsWritten() int {
	return len(w.buf)*8 + int(w.nbits)
}

// Reader consumes bits from a byte slice in the order a [Writer] produced them.
type Reader struct {
	data  []byte
	pos   int
	bits  uint64
	nbits uint
}

// NewReader returns a Reader that starts at `offset` within `data`.
func NewReader(data []byte, offset int) *Reader {
	return &Reader{data: data, pos: offset}
}

// ReadBits returns the next `n` bits of the stream. Bytes are only pulled from
// the underlying slice when fewer than `n` bits are buffered, one at a time.
//
// If the data runs out first, the error wraps [worldpack.ErrTruncatedStream]
// and the reader's state is unspecified.
func (r *Reader) ReadBits(n uint) (uint32, error) {
	if n > MaxFieldBits {
		return 0, worldpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("can't read %d bits at once, max is %d", n, MaxFieldBits))
	}
	for r.nbits < n {
		if r.pos >= len(r.data) {
			return 0, worldpack.ErrTruncatedStream.WithMessage(
				fmt.Sprintf(
					"needed %d bits at byte %d, only %d available",
					n,
					r.pos,
					r.nbits,
				),
			)
		}
		r.bits |= uint64(r.data[r.pos]) << r.nbits
		r.pos++
		r.nbits += 8
	}

	value := uint32(r.bits & (uint64(1)<<n - 1))
	r.bits >>= n
	r.nbits -= n
	return value, nil
}

// ReadBit is shorthand for ReadBits(1).
func (r *Reader) ReadBit() (uint32, error) {
	return r.ReadBits(1)
}

// Align throws away any bits left over from a partially consumed byte, so that
// the next read starts at [Reader.Offset].
func (r *Reader) Align() {
	r.bits = 0
	r.nbits = 0
}

// Offset gives the index of the next byte in the underlying slice that hasn't
// been pulled into the bit buffer yet.
func (r *Reader) Offset() int {
	return r.pos
}
