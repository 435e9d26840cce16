package types

// Byte is a byte count or a byte offset.
type Byte int64

// Block identifies a device block. Block ids are assigned by the device and
// are only meaningful to the device that assigned them.
type Block uint64

const (
	DefaultBlockSize Byte = 512

	BlockNil Block = 0
)
