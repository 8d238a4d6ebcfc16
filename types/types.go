package types

const (
	// UInt64Length is the number of bytes taken by uint64.
	UInt64Length = 8

	// NodeLength is the number of bytes taken by one node slot in the arena.
	NodeLength = 2 * UInt64Length

	// HashLength is the number of bytes taken by hash.
	HashLength = 32
)

type (
	// NodeAddress is the index of a node slot in the arena. Address 0 is reserved and means nil.
	NodeAddress uint64

	// Link stores exclusive-or of the addresses of node's predecessor and successor.
	Link uint64

	// Hash represents blake3 hash.
	Hash [HashLength]byte
)

// ListRoot is the entry point to the list.
type ListRoot struct {
	Head       NodeAddress
	Tail       NodeAddress
	NumOfNodes uint64
}
