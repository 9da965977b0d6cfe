package libsqsum

import (
	"bytes"
	"hash/maphash"

	"github.com/sqsum-systems/go-sqsum/sqsum"
)

// dropDupes is a PathAdder that admits each structurally distinct path once.
//
// Paths are keyed by their exact vertex sequence, so two merge products that
// visit the same vertices in the same order collapse to one entry while
// distinct orderings both survive.
type dropDupes struct {
	hashMap   map[uint64][]byte
	hasher    maphash.Hash
	bufPool   []byte
	bufPoolSz int
	opts      DropDupeOpts
}

const DefaultPoolSz = 32 * 1024

type DropDupeOpts struct {
	PoolSz int // 0 denotes DefaultPoolSz (32k)
}

func NewDropDupes(opts DropDupeOpts) sqsum.PathAdder {
	if opts.PoolSz <= 0 {
		opts.PoolSz = DefaultPoolSz
	}
	return &dropDupes{
		hashMap: make(map[uint64][]byte),
		opts:    opts,
	}
}

func (dd *dropDupes) TryAddPath(p *sqsum.Path) bool {
	var keyBuf [sqsum.MaxSeqLen]byte
	pkey := p.AppendEncoding(keyBuf[:0])

	dd.hasher.Reset()
	dd.hasher.Write(pkey)
	hash := dd.hasher.Sum64()

	existing, found := dd.hashMap[hash]
	for found {
		if bytes.Equal(existing, pkey) {
			return false
		}
		hash++
		existing, found = dd.hashMap[hash]
	}

	// If we've gotten here, it means this is a new entry.
	// Place a copy of the key in our backing buf (in the heap).
	// If we run out of space in our pool, we start a new pool.
	pos := dd.bufPoolSz
	itemLen := len(pkey)
	if pos+itemLen > cap(dd.bufPool) {
		allocSz := max(dd.opts.PoolSz, itemLen)
		dd.bufPool = make([]byte, allocSz)
		dd.bufPoolSz = 0
		pos = 0
	}

	// Place the backed copy of the path key at the open hash spot
	dd.hashMap[hash] = append(dd.bufPool[pos:pos], pkey...)
	dd.bufPoolSz += itemLen
	return true
}
