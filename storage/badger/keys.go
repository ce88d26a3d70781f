package badger

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/poiesic/propmatch/core"
)

// keyspace is the key prefix of one record kind.
type keyspace string

const (
	propertySpace keyspace = "prop:"
	vectorSpace   keyspace = "propvec:"
	searchSpace   keyspace = "srchlog:"
)

// searchLogSequence names the badger sequence that breaks timestamp ties.
const searchLogSequence = "srchlogseq"

func (k keyspace) prefix() []byte {
	return []byte(k)
}

func (k keyspace) key(id core.PropertyID) []byte {
	return append(k.prefix(), string(id)...)
}

func (k keyspace) id(key []byte) core.PropertyID {
	return core.PropertyID(bytes.TrimPrefix(key, k.prefix()))
}

// searchKey sorts history entries oldest first: the prefix, then big-endian
// unix microseconds, then the big-endian sequence number.
func searchKey(ts time.Time, seq uint64) []byte {
	key := binary.BigEndian.AppendUint64(searchSpace.prefix(), uint64(ts.UnixMicro()))
	return binary.BigEndian.AppendUint64(key, seq)
}

// searchSeekEnd sorts after every history key.
func searchSeekEnd() []byte {
	return append(searchSpace.prefix(), 0xFF)
}
