package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.skia.org/infra/go/testutils/unittest"

	"github.com/zakerinasab/perfetto/ids"
	"github.com/zakerinasab/perfetto/variadic"
)

func TestAddArgSet_IdempotentOnIdenticalOrderedContent(t *testing.T) {
	unittest.SmallTest(t)
	s := NewStore()
	buf := []Arg{
		{FlatKey: 1, Key: 1, Value: variadic.Integer(5)},
		{FlatKey: 2, Key: 2, Value: variadic.String(3)},
	}
	id1 := s.AddArgSet(buf, 0, 2)
	id2 := s.AddArgSet(buf, 0, 2)
	assert.Equal(t, id1, id2)
	assert.NotEqual(t, ids.InvalidArgSetId, id1)
	assert.Equal(t, 1, s.SetCount())
	assert.Equal(t, 2, s.ArgsCount())
}

func TestAddArgSet_DistinctContentGetsDistinctIds(t *testing.T) {
	unittest.SmallTest(t)
	s := NewStore()
	a := []Arg{{Key: 1, Value: variadic.Integer(5)}}
	b := []Arg{{Key: 1, Value: variadic.Integer(6)}}
	idA := s.AddArgSet(a, 0, 1)
	idB := s.AddArgSet(b, 0, 1)
	assert.NotEqual(t, idA, idB)
}

func TestAddArgSet_FlatKeyExcludedFromFingerprint(t *testing.T) {
	unittest.SmallTest(t)
	s := NewStore()
	a := []Arg{{FlatKey: 1, Key: 5, Value: variadic.Integer(5)}}
	b := []Arg{{FlatKey: 2, Key: 5, Value: variadic.Integer(5)}}
	idA := s.AddArgSet(a, 0, 1)
	idB := s.AddArgSet(b, 0, 1)
	assert.Equal(t, idA, idB)
}

func TestAddArgSet_RoundTripsOrderedTriples(t *testing.T) {
	unittest.SmallTest(t)
	s := NewStore()
	buf := []Arg{
		{FlatKey: 10, Key: 11, Value: variadic.Integer(1)},
		{FlatKey: 20, Key: 21, Value: variadic.Pointer(2)},
		{FlatKey: 30, Key: 31, Value: variadic.Boolean(true)},
	}
	id := s.AddArgSet(buf, 0, 3)

	got := s.ArgsForSet(id)
	if assert.Len(t, got, 3) {
		for i, want := range buf {
			assert.Equal(t, want.FlatKey, got[i].FlatKey)
			assert.Equal(t, want.Key, got[i].Key)
			assert.True(t, want.Value.Equal(got[i].Value))
		}
	}
}

func TestAddArgSet_DifferentOrderIsADifferentSet(t *testing.T) {
	unittest.SmallTest(t)
	s := NewStore()
	a := []Arg{
		{Key: 1, Value: variadic.Integer(1)},
		{Key: 2, Value: variadic.Integer(2)},
	}
	b := []Arg{
		{Key: 2, Value: variadic.Integer(2)},
		{Key: 1, Value: variadic.Integer(1)},
	}
	idA := s.AddArgSet(a, 0, 2)
	idB := s.AddArgSet(b, 0, 2)
	assert.NotEqual(t, idA, idB)
}

func TestArgsForSet_InvalidIdReturnsNil(t *testing.T) {
	unittest.SmallTest(t)
	s := NewStore()
	assert.Nil(t, s.ArgsForSet(ids.InvalidArgSetId))
}
