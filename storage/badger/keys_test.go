package badger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/propmatch/core"
)

func TestKeyspace(t *testing.T) {
	key := vectorSpace.key("lakeview")
	assert.Equal(t, []byte("propvec:lakeview"), key)
	assert.Equal(t, core.PropertyID("lakeview"), vectorSpace.id(key))
	assert.False(t, bytes.HasPrefix(vectorSpace.key("x"), propertySpace.prefix()))
}

func TestSearchKey_Order(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	earlier := searchKey(base, 9)
	sameTime := searchKey(base, 10)
	later := searchKey(base.Add(time.Microsecond), 0)

	assert.Negative(t, bytes.Compare(earlier, sameTime))
	assert.Negative(t, bytes.Compare(sameTime, later))
	assert.Len(t, later, len(searchSpace)+16)
	assert.Positive(t, bytes.Compare(searchSeekEnd(), later))
}
