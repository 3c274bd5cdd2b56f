package tabular

// reader.go prepares raw upload bytes for the row splitter.
//
// Spreadsheet exports routinely carry a UTF-8 byte order mark and, when
// saved from legacy tools, stray invalid UTF-8 bytes. Both are cleaned here
// before any delimiter sniffing happens:
//
//   - the BOM (0xEF 0xBB 0xBF) is dropped
//   - invalid sequences become U+FFFD
//   - input larger than the configured limit is rejected outright

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// DefaultMaxBytes is the import size limit used when Options.MaxBytes is unset.
const DefaultMaxBytes int64 = 5 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	// ErrTooLarge is returned when the input exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrUnreadable is returned when the input cannot be read or split into rows.
	ErrUnreadable = errors.New("invalid csv")
	// ErrEmptyFile is returned when the input has no non-blank rows.
	ErrEmptyFile = errors.New("empty file")
)

// NewBOMSkippingReader returns a reader that drops a leading UTF-8 BOM.
func NewBOMSkippingReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// readInput reads at most maxBytes from r, strips the BOM and replaces
// invalid UTF-8.
func readInput(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(NewBOMSkippingReader(r), maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrUnreadable, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}
	return sanitizeUTF8(data), nil
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement character.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	return bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))
}
