package midi

import (
	"bytes"
	"math"
	"sort"

	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/model"
	"github.com/jsphweid/maestro/util"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// largest value of the 24 bit microseconds-per-quarter tempo field
const maxMicrosPerQuarter = 0xFFFFFF

type timedMessage struct {
	tick  uint32
	isOff bool
	msg   midi.Message
}

// Encode writes s as a format 1 midi file: a conductor track carrying the
// time signature and tempo at tick zero, then one track per score track.
func Encode(s *model.Score) ([]byte, error) {
	bpm := s.Tempo.Bpm
	if !(bpm > 0) || math.IsInf(bpm, 0) || 60000000/bpm > maxMicrosPerQuarter {
		return nil, errors.Wrapf(model.ErrInvalidParameter, "tempo %v cannot be written", bpm)
	}
	num, denom := s.TimeSignature.Numerator, s.TimeSignature.Denominator
	if num < 1 || num > math.MaxUint8 || denom < 1 || denom > math.MaxUint8 {
		return nil, errors.Wrapf(model.ErrInvalidParameter, "time signature %d/%d cannot be written", num, denom)
	}

	mf := smf.New()
	mf.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)

	var conductor smf.Track
	conductor.Add(0, smf.MetaMeter(uint8(num), uint8(denom)))
	conductor.Add(0, smf.MetaTempo(bpm))
	conductor.Close(0)
	mf.Add(conductor)

	ticksPerSecond := bpm / 60 * constants.TicksPerQuarter
	toTicks := func(sec float64) uint32 {
		return uint32(math.Round(util.Max(sec, 0) * ticksPerSecond))
	}

	for i, t := range s.Tracks {
		for j, n := range t.Notes {
			// the note off may land one tick after the rounded end
			if math.Round(util.Max(n.End, n.Start)*ticksPerSecond)+1 > math.MaxUint32 {
				return nil, errors.Wrapf(model.ErrInvalidParameter,
					"track %d note %d: %vs is past the last writable tick", i, j, util.Max(n.End, n.Start))
			}
		}
	}

	channels := channelsFor(s.Tracks)
	for i, t := range s.Tracks {
		ch := channels[i]
		msgs := make([]timedMessage, 0, len(t.Notes)*2)
		for _, n := range t.Notes {
			key := uint8(util.Clamp(n.Pitch, constants.MinPitch, constants.MaxPitch))
			// velocity 0 would read back as a note off
			vel := util.Clamp(n.Velocity, 1, 127)
			on := toTicks(n.Start)
			off := util.Max(toTicks(n.End), on+1)
			msgs = append(msgs,
				timedMessage{tick: on, msg: midi.NoteOn(ch, key, vel)},
				timedMessage{tick: off, isOff: true, msg: midi.NoteOff(ch, key)},
			)
		}
		sort.SliceStable(msgs, func(i, j int) bool {
			if msgs[i].tick != msgs[j].tick {
				return msgs[i].tick < msgs[j].tick
			}
			return msgs[i].isOff && !msgs[j].isOff
		})

		var track smf.Track
		program := uint8(util.Clamp(t.Program, 0, 127))
		track.Add(0, midi.ProgramChange(ch, program))
		var last uint32
		for _, m := range msgs {
			track.Add(m.tick-last, m.msg)
			last = m.tick
		}
		track.Close(0)
		mf.Add(track)
	}

	var buf bytes.Buffer
	if _, err := mf.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing midi")
	}
	return buf.Bytes(), nil
}

// channelsFor gives drum tracks channel 9 and hands out the other channels
// in order, skipping 9 and wrapping after 15.
func channelsFor(tracks []model.Track) []uint8 {
	res := make([]uint8, len(tracks))
	var next uint8
	for i, t := range tracks {
		if t.IsDrum {
			res[i] = constants.DrumChannel
			continue
		}
		if next == constants.DrumChannel {
			next++
		}
		res[i] = next
		next = (next + 1) % 16
	}
	return res
}
