package alloc

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/outofforest/spiral/types"
)

// MaxNumOfNodes is the largest number of node slots an arena may have.
const MaxNumOfNodes = 1 << 32

var hugePageSizes = []uintptr{2 * 1024 * 1024, 1024 * 1024 * 1024}

// Allocate maps memory for numOfNodes node slots. Returned pointer is aligned to the node length.
func Allocate(numOfNodes uint64, useHugePages bool) (unsafe.Pointer, func(), error) {
	if numOfNodes > MaxNumOfNodes {
		return nil, nil, errors.Errorf("arena is too large, %d nodes requested, limit is %d", numOfNodes,
			uint64(MaxNumOfNodes))
	}

	opts := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS | unix.MAP_POPULATE
	if useHugePages {
		opts |= unix.MAP_HUGETLB
	}

	// One more slot is mapped, so the arena may be shifted to the node boundary.
	mappedSize := uintptr(numOfNodes+1) * types.NodeLength
	mapped, err := unix.MmapPtr(-1, 0, nil, mappedSize, unix.PROT_READ|unix.PROT_WRITE, opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "mapping arena of %d nodes failed", numOfNodes)
	}

	shift := (types.NodeLength - uintptr(mapped)%types.NodeLength) % types.NodeLength
	return unsafe.Add(mapped, shift), func() {
		release(mapped, mappedSize, useHugePages)
	}, nil
}

// release unmaps the arena. Length passed to munmap must be rounded up to the page size used by mmap,
// and the huge page size is not known here.
func release(mapped unsafe.Pointer, mappedSize uintptr, useHugePages bool) {
	if useHugePages {
		for _, pageSize := range hugePageSizes {
			if unix.MunmapPtr(mapped, roundUp(mappedSize, pageSize)) == nil {
				return
			}
		}
	}
	_ = unix.MunmapPtr(mapped, roundUp(mappedSize, uintptr(os.Getpagesize())))
}

func roundUp(size, pageSize uintptr) uintptr {
	return (size + pageSize - 1) / pageSize * pageSize
}
