package layout

// Tag is the one-byte discriminant preceding every node.
type Tag = byte

const (
	// TagNil marks the terminal node.
	TagNil Tag = 0x00
	// TagCons marks a node that carries fields and is followed by another node.
	TagCons Tag = 0x01
)

// TagSize is the encoded size of a tag in bytes.
const TagSize = 1
