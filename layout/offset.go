package layout

// TagOffset returns the AoS byte offset of node i's tag.
func (d *Descriptor) TagOffset(i int) int {
	return i * d.stride
}

// FieldOffset returns the AoS byte offset of field j of node i.
func (d *Descriptor) FieldOffset(i, j int) int {
	return i*d.stride + TagSize + d.prefix[j]
}

// FieldSlot returns the offset of field j relative to its node's tag.
func (d *Descriptor) FieldSlot(j int) int {
	return TagSize + d.prefix[j]
}

// ColumnOffset returns the SoA byte offset of node i in field buffer j.
func (d *Descriptor) ColumnOffset(i, j int) int {
	return i * d.widths[j]
}
