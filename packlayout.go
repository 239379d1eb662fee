package packlayout

import "github.com/wippyai/packlayout/region"

// Allocator hands out fixed-size regions. Implementations never grow a region
// after it is returned.
type Allocator interface {
	Allocate(size int) (*region.Region, error)
}
