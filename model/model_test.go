package model

import (
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCloneIsDeep(t *testing.T) {
	s := &Score{
		Tracks:        []Track{{Program: 1, Notes: []Note{{Pitch: 60, Start: 0, End: 1}}}},
		Tempo:         TempoSetting{Bpm: 100},
		TimeSignature: TimeSignatureSetting{Numerator: 3, Denominator: 4},
	}
	c := s.Clone()
	assert.Equal(t, s, c)

	c.Tracks[0].Notes[0].Pitch = 70
	c.Tracks[0].Program = 9
	c.Tempo.Bpm = 50

	assert := assert.New(t)
	assert.Equal(60, s.Tracks[0].Notes[0].Pitch)
	assert.Equal(1, s.Tracks[0].Program)
	assert.Equal(100.0, s.Tempo.Bpm)
}

func TestScoreSummaries(t *testing.T) {
	s := &Score{Tracks: []Track{
		{Notes: []Note{{Start: 0, End: 1}, {Start: 2, End: 3.5}}},
		{Notes: []Note{{Start: 1, End: 2}}},
		{},
	}}
	assert.Equal(t, 3, s.NumNotes())
	assert.Equal(t, 3.5, s.EndTime())
	assert.Equal(t, 0.0, (&Score{}).EndTime())
}

func TestParseParametersDefaults(t *testing.T) {
	p, err := ParseParameters(url.Values{})
	assert.NoError(t, err)
	assert.Equal(t, DefaultParameters(), p)
	assert.Equal(t, 120.0, p.SourceTempo())
}

func TestParseParameters(t *testing.T) {
	q, _ := url.ParseQuery("transpose=-7&tempo=90.5&original_tempo=100&numerator=6&denominator=8&instrument=25&staccato=1")
	p, err := ParseParameters(q)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(Parameters{
		TransposeSemitones: -7,
		TempoBpm:           90.5,
		OriginalTempoBpm:   100,
		TimeSignature:      TimeSignatureSetting{Numerator: 6, Denominator: 8},
		InstrumentProgram:  25,
		StaccatoEnabled:    true,
	}, p)
	assert.Equal(100.0, p.SourceTempo())
}

func TestParseParametersInvalid(t *testing.T) {
	for _, raw := range []string{
		"tempo=0", "tempo=-1", "tempo=x", "tempo=NaN", "tempo=Inf",
		"original_tempo=-5", "numerator=0", "denominator=0", "instrument=-1",
		"instrument=128", "transpose=1.5", "staccato=maybe",
	} {
		q, _ := url.ParseQuery(raw)
		_, err := ParseParameters(q)
		assert.True(t, errors.Is(err, ErrInvalidParameter), raw)
		assert.Equal(t, KindInvalidParameter, KindOf(err), raw)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindDecode, KindOf(errors.Wrap(ErrDecode, "bad header")))
	assert.Equal(t, KindInternal, KindOf(errors.New("disk full")))
}
