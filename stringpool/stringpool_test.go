package stringpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.skia.org/infra/go/testutils/unittest"

	"github.com/zakerinasab/perfetto/ids"
)

func TestNew_EmptyStringReservedAtZero(t *testing.T) {
	unittest.SmallTest(t)
	p := New()
	assert.Equal(t, 1, p.Size())
	assert.Equal(t, ids.NullStringId, p.InternStringS(""))
	assert.Equal(t, []byte{}, p.Get(ids.NullStringId))
}

func TestInternString_Idempotent(t *testing.T) {
	unittest.SmallTest(t)
	p := New()
	a := p.InternStringS("cat")
	b := p.InternStringS("cat")
	require.Equal(t, a, b)
	assert.Equal(t, 2, p.Size())
}

func TestInternString_DistinctStringsGetDistinctIds(t *testing.T) {
	unittest.SmallTest(t)
	p := New()
	a := p.InternStringS("cat")
	b := p.InternStringS("name")
	assert.NotEqual(t, a, b)
}

func TestGet_RoundTripsOriginalBytes(t *testing.T) {
	unittest.SmallTest(t)
	p := New()
	id := p.InternStringS("debug.draw_duration_ms[1]")
	assert.Equal(t, "debug.draw_duration_ms[1]", p.GetString(id))
}

func TestInternString_HashCollisionsStillDisambiguateByContent(t *testing.T) {
	unittest.SmallTest(t)
	p := New()
	// Different content interned many times should never alias ids, even
	// if two entries happen to share a hash bucket.
	seen := map[ids.StringId]string{}
	for i := 0; i < 256; i++ {
		s := string(rune('a' + i%26))
		id := p.InternStringS(s)
		if prev, ok := seen[id]; ok {
			assert.Equal(t, prev, s)
		} else {
			seen[id] = s
		}
	}
}
