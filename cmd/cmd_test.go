package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/maestro/library"
	"github.com/jsphweid/maestro/midi"
	"github.com/jsphweid/maestro/model"
	"github.com/stretchr/testify/assert"
)

func sourceScore() *model.Score {
	return &model.Score{
		Tracks: []model.Track{
			{Program: 0, Notes: []model.Note{
				{Pitch: 60, Start: 0.0, End: 1.0, Velocity: 100},
				{Pitch: 125, Start: 1.0, End: 1.5, Velocity: 100},
			}},
		},
		Tempo:         model.TempoSetting{Bpm: 120},
		TimeSignature: model.TimeSignatureSetting{Numerator: 4, Denominator: 4},
	}
}

func sourceBytes(t *testing.T) []byte {
	t.Helper()
	data, err := midi.Encode(sourceScore())
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func makeLibrary(t *testing.T) *library.Library {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "CLASS1")
	if err := os.MkdirAll(dir, 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "song.mid"), sourceBytes(t), 0644); err != nil {
		t.Fatal(err)
	}
	lib, err := library.Load(root, []string{"CLASS1", "CLASS2"})
	if err != nil {
		t.Fatal(err)
	}
	return lib
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func TestTransformEndpoint(t *testing.T) {
	h := NewRouter(makeLibrary(t), nil, 1000)
	resp := do(t, h, http.MethodPost, "/transform?transpose=10&numerator=3&denominator=4&instrument=40&staccato=true", sourceBytes(t))

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal("audio/midi", resp.Header.Get("Content-Type"))
	assert.Contains(resp.Header.Get("Content-Disposition"), "custom_midi.mid")
	assert.NotEmpty(resp.Header.Get("X-Request-Id"))

	body, _ := io.ReadAll(resp.Body)
	out, err := midi.Decode(body)
	assert.NoError(err)
	assert.Equal(model.TimeSignatureSetting{Numerator: 3, Denominator: 4}, out.TimeSignature)
	if assert.Len(out.Tracks, 1) && assert.Len(out.Tracks[0].Notes, 2) {
		assert.Equal(40, out.Tracks[0].Program)
		assert.Equal(70, out.Tracks[0].Notes[0].Pitch)
		assert.Equal(127, out.Tracks[0].Notes[1].Pitch)
		assert.InDelta(0.25, out.Tracks[0].Notes[0].Duration(), 1e-3)
		assert.InDelta(0.75, out.Tracks[0].Notes[1].Start, 1e-3)
	}
}

func TestTransformEndpointErrors(t *testing.T) {
	h := NewRouter(makeLibrary(t), nil, 1000)
	cases := []struct {
		target string
		body   []byte
		status int
		kind   string
	}{
		{"/transform", []byte("garbage"), http.StatusBadRequest, model.KindDecode},
		{"/transform?tempo=0", sourceBytes(t), http.StatusUnprocessableEntity, model.KindInvalidParameter},
		{"/transform?tempo=abc", sourceBytes(t), http.StatusUnprocessableEntity, model.KindInvalidParameter},
		{"/transform?numerator=-3", sourceBytes(t), http.StatusUnprocessableEntity, model.KindInvalidParameter},
		{"/transform?instrument=200", sourceBytes(t), http.StatusUnprocessableEntity, model.KindInvalidParameter},
	}
	for _, c := range cases {
		t.Run(c.target, func(t *testing.T) {
			resp := do(t, h, http.MethodPost, c.target, c.body)
			assert.Equal(t, c.status, resp.StatusCode)

			var e model.ErrorResponse
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.Equal(t, c.kind, e.Kind)
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestGenerateEndpoint(t *testing.T) {
	h := NewRouter(makeLibrary(t), nil, 1000)

	resp := do(t, h, http.MethodGet, "/generate?class=CLASS1&tempo=90", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "song.mid", resp.Header.Get("X-Maestro-Source"))
	body, _ := io.ReadAll(resp.Body)
	out, err := midi.Decode(body)
	assert.NoError(t, err)
	assert.InDelta(t, 90.0, out.Tempo.Bpm, 1e-3)

	resp = do(t, h, http.MethodGet, "/generate?class=CLASS2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClassesAndInstrumentsEndpoints(t *testing.T) {
	h := NewRouter(makeLibrary(t), nil, 1000)

	resp := do(t, h, http.MethodGet, "/classes", nil)
	var classes []model.ClassSummary
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&classes))
	assert.Equal(t, []model.ClassSummary{{Name: "CLASS1", NumFiles: 1}, {Name: "CLASS2", NumFiles: 0}}, classes)

	resp = do(t, h, http.MethodGet, "/instruments", nil)
	var instruments model.InstrumentsResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&instruments))
	assert.Len(t, instruments.Instruments, 5)
	assert.Equal(t, model.Instrument{Program: 0, Name: "Acoustic Grand Piano"}, instruments.Instruments[0])
	assert.Len(t, instruments.NoteNames, 12)

	resp = do(t, h, http.MethodPost, "/library/rescan", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	h := NewRouter(makeLibrary(t), nil, 1)
	var limited bool
	for i := 0; i < 10; i++ {
		if do(t, h, http.MethodGet, "/instruments", nil).StatusCode == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited)
}

func TestGenerateWritesFiles(t *testing.T) {
	lib := makeLibrary(t)
	out := filepath.Join(t.TempDir(), "out")

	paths, err := generate(lib, "CLASS1", 5, 2, out, model.DefaultParameters())
	assert.NoError(t, err)
	assert.Len(t, paths, 5)
	for _, p := range paths {
		s, err := midi.ReadMidiFile(p)
		assert.NoError(t, err)
		assert.Equal(t, 2, s.NumNotes())
	}

	_, err = generate(lib, "CLASS2", 2, 2, out, model.DefaultParameters())
	assert.Error(t, err)
}

func TestRunTransform(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mid")
	out := filepath.Join(dir, "out.mid")
	assert.NoError(t, os.WriteFile(in, sourceBytes(t), 0644))

	p := model.DefaultParameters()
	p.TransposeSemitones = -12
	assert.NoError(t, runTransform(in, out, p))

	s, err := midi.ReadMidiFile(out)
	assert.NoError(t, err)
	assert.Equal(t, 48, s.Tracks[0].Notes[0].Pitch)
}

func TestInspectAndReport(t *testing.T) {
	var buf bytes.Buffer
	inspect(&buf, sourceScore(), 0.5, 10)
	text := buf.String()
	assert.Contains(t, text, "tempo: 120 BPM")
	assert.Contains(t, text, "time signature: 4/4")
	assert.Contains(t, text, "Acoustic Grand Piano, 2 notes")
	assert.Contains(t, text, "pitch 125 (F)")

	reports := analyzeClasses(makeLibrary(t))
	if assert.Len(t, reports, 2) {
		assert.Equal(t, 1, reports[0].numFiles)
		assert.Equal(t, 2, reports[0].numNotes)
		assert.Equal(t, 0, reports[1].numFiles)
	}
}
