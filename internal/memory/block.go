// Package memory implements the flat, exclusively owned physical
// memory blocks backing an Apple IIe: main RAM, auxiliary RAM,
// language-card RAM, and the various ROM images.
package memory

import "fmt"

// ConfigurationError is returned for construction-time mistakes that
// can never be recovered from at runtime: a zero-sized block. A window
// or load that runs past the end of a block is reported as InvalidSlice.
type ConfigurationError struct {
	Op  string
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("memory: %s: %s", e.Op, e.Msg)
}

// InvalidSlice reports a Window or Load call whose offset+length
// exceeds the block's size.
type InvalidSlice struct {
	Name           string
	Offset, Length int
	Size           int
}

func (e *InvalidSlice) Error() string {
	return fmt.Sprintf("memory: slice %s[%d:%d] exceeds size %d", e.Name, e.Offset, e.Offset+e.Length, e.Size)
}

// Block is a named, contiguous, exclusively owned byte array. It is
// the single source of truth for its bytes; every byte window handed
// out by Window is a non-owning view into it.
type Block struct {
	Name string
	Data []byte
}

// NewBlock allocates a zero- or fill-byte-filled block of the given
// size. It returns a *ConfigurationError if size is zero.
func NewBlock(name string, size int, fill byte) (*Block, error) {
	if size == 0 {
		return nil, &ConfigurationError{Op: "NewBlock", Msg: fmt.Sprintf("%s: size must be non-zero", name)}
	}
	data := make([]byte, size)
	if fill != 0 {
		for i := range data {
			data[i] = fill
		}
	}
	return &Block{Name: name, Data: data}, nil
}

// Load copies src into the block starting at offset. It is used for
// ROM-image loading and reset-state initialization.
func (b *Block) Load(offset int, src []byte) error {
	if offset < 0 || offset+len(src) > len(b.Data) {
		return &InvalidSlice{Name: b.Name, Offset: offset, Length: len(src), Size: len(b.Data)}
	}
	copy(b.Data[offset:offset+len(src)], src)
	return nil
}

// Window returns a sub-slice of the block's bytes, validating bounds.
// Callers (internal/bus) wrap the result in a RAM or ROM Target.
func (b *Block) Window(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(b.Data) {
		return nil, &InvalidSlice{Name: b.Name, Offset: offset, Length: length, Size: len(b.Data)}
	}
	return b.Data[offset : offset+length], nil
}

// Size returns the block's total size in bytes.
func (b *Block) Size() int { return len(b.Data) }
