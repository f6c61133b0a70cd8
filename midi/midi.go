// Package midi converts between standard midi files and model.Score.
package midi

import (
	"bytes"
	"os"
	"sort"

	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(path string) (*model.Score, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading midi file %v", path)
	}
	s, err := Decode(dat)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return s, nil
}

// Decode parses a standard midi file. Times are converted to seconds using
// the file's tempo map; the score keeps only the first tempo and the first
// time signature it finds.
func Decode(data []byte) (s *model.Score, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Wrapf(model.ErrDecode, "parsing midi: %v", r)
		}
	}()

	mf, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(model.ErrDecode, "parsing midi: %v", err)
	}
	return fromSMF(mf), nil
}

type openNote struct {
	start    float64
	velocity uint8
}

// channelNotes collects the notes of one channel within one smf track.
type channelNotes struct {
	channel    uint8
	program    uint8
	hasProgram bool
	open       map[uint8][]openNote
	notes      []model.Note
}

func (c *channelNotes) start(key, velocity uint8, t float64) {
	c.open[key] = append(c.open[key], openNote{start: t, velocity: velocity})
}

// end closes the oldest open note on key.
func (c *channelNotes) end(key uint8, t float64) {
	pending := c.open[key]
	if len(pending) == 0 {
		return
	}
	n := pending[0]
	c.open[key] = pending[1:]
	c.notes = append(c.notes, model.Note{
		Pitch:    int(key),
		Start:    n.start,
		End:      t,
		Velocity: n.velocity,
	})
}

func (c *channelNotes) closeAll(t float64) {
	for key, pending := range c.open {
		for range pending {
			c.end(key, t)
		}
	}
}

func (c *channelNotes) track() model.Track {
	sort.SliceStable(c.notes, func(i, j int) bool {
		return c.notes[i].Start < c.notes[j].Start
	})
	return model.Track{
		Program: int(c.program),
		Channel: c.channel,
		IsDrum:  c.channel == constants.DrumChannel,
		Notes:   c.notes,
	}
}

func fromSMF(mf *smf.SMF) *model.Score {
	score := &model.Score{
		Tempo: model.TempoSetting{Bpm: constants.DefaultTempo},
		TimeSignature: model.TimeSignatureSetting{
			Numerator:   constants.DefaultNumerator,
			Denominator: constants.DefaultDenominator,
		},
	}
	var foundTempo, foundMeter bool

	for _, events := range mf.Tracks {
		var absTicks int64
		var lastTime float64
		var order []uint8
		channels := make(map[uint8]*channelNotes)
		get := func(ch uint8) *channelNotes {
			c, ok := channels[ch]
			if !ok {
				c = &channelNotes{channel: ch, open: make(map[uint8][]openNote)}
				channels[ch] = c
				order = append(order, ch)
			}
			return c
		}

		for _, event := range events {
			absTicks += int64(event.Delta)
			t := float64(mf.TimeAt(absTicks)) / 1e6
			lastTime = t

			var channel, key, velocity, program, num, denom uint8
			var bpm float64
			switch {
			case event.Message.GetMetaTempo(&bpm):
				if !foundTempo {
					score.Tempo.Bpm = bpm
					foundTempo = true
				}
			case event.Message.GetMetaMeter(&num, &denom):
				if !foundMeter {
					score.TimeSignature = model.TimeSignatureSetting{Numerator: int(num), Denominator: int(denom)}
					foundMeter = true
				}
			case event.Message.GetProgramChange(&channel, &program):
				c := get(channel)
				if !c.hasProgram {
					c.program = program
					c.hasProgram = true
				}
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				get(channel).start(key, velocity, t)
			case event.Message.GetNoteEnd(&channel, &key):
				get(channel).end(key, t)
			}
		}

		for _, ch := range order {
			c := channels[ch]
			c.closeAll(lastTime)
			if len(c.notes) > 0 {
				score.Tracks = append(score.Tracks, c.track())
			}
		}
	}

	return score
}
