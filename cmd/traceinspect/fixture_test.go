package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.skia.org/infra/go/testutils/unittest"

	"github.com/zakerinasab/perfetto/storage"
)

const sampleFixture = `
{"kind":"thread","tid":100}
{"kind":"thread_track","tid":100,"track":"t1","name":"thread track"}
{"kind":"slice","track":"t1","ts":10000000,"dur":10000,"cat":"cat","name":"name","args":{"k":5}}
{"kind":"raw_event","tid":100,"name":"chrome_event.metadata","args":{"a":1,"b":"two"}}
`

func TestLoadFixture_AppliesEventsAndLinksArgs(t *testing.T) {
	unittest.MediumTest(t)
	s := storage.New("fixture-test")
	count, err := loadFixture(s, strings.NewReader(sampleFixture))
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	summary := s.Summarize()
	assert.Equal(t, 2, summary.Threads)
	assert.Equal(t, 1, summary.Tracks)
	assert.Equal(t, 1, summary.Slices)
	assert.Equal(t, 1, summary.RawEvents)
	assert.Equal(t, 2, summary.ArgSets)
	assert.NoError(t, s.Validate())
}

func TestLoadFixture_UnknownTrackReferenceIsAnError(t *testing.T) {
	unittest.SmallTest(t)
	s := storage.New("fixture-test")
	_, err := loadFixture(s, strings.NewReader(`{"kind":"slice","track":"missing","ts":0,"dur":1}`+"\n"))
	require.Error(t, err)
}

func TestLoadFixture_UnknownKindIsAnError(t *testing.T) {
	unittest.SmallTest(t)
	s := storage.New("fixture-test")
	_, err := loadFixture(s, strings.NewReader(`{"kind":"bogus"}`+"\n"))
	require.Error(t, err)
}
