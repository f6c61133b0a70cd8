// Package library serves the class folders of source midi files the
// generator picks from.
package library

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/maestro/midi"
	"github.com/jsphweid/maestro/model"
	"github.com/jsphweid/maestro/util"
	"github.com/pkg/errors"
)

// ErrEmptyClass means there is no source score to pick from.
var ErrEmptyClass = errors.New("no midi files in class")

const RescanDelay = 2 * time.Second

type Library struct {
	root    string
	classes []string

	mu     sync.RWMutex
	files  map[string][]string
	scores map[string]*model.Score

	debounced func(f func())
}

func Load(root string, classes []string) (*Library, error) {
	l := &Library{
		root:      root,
		classes:   classes,
		debounced: debounce.New(RescanDelay),
	}
	if err := l.Rescan(); err != nil {
		return nil, err
	}
	return l, nil
}

// SetRescanDelay changes how long RequestRescan waits for the burst to end.
func (l *Library) SetRescanDelay(d time.Duration) {
	l.debounced = debounce.New(d)
}

func (l *Library) Root() string {
	return l.root
}

func (l *Library) Classes() []string {
	return l.classes
}

// Rescan rereads every class folder and drops the score cache. A missing
// class folder is an empty class.
func (l *Library) Rescan() error {
	files := make(map[string][]string)
	for _, class := range l.classes {
		dir := filepath.Join(l.root, class)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			files[class] = nil
			continue
		}
		paths, err := util.GatherAllMidiPaths(dir, 0)
		if err != nil {
			return errors.Wrapf(err, "scanning class %v", class)
		}
		files[class] = paths
	}

	l.mu.Lock()
	l.files = files
	l.scores = make(map[string]*model.Score)
	l.mu.Unlock()
	return nil
}

// RequestRescan schedules a Rescan; bursts of requests collapse into one.
func (l *Library) RequestRescan() {
	l.debounced(func() {
		if err := l.Rescan(); err != nil {
			log.Printf("library rescan failed: %v", err)
			return
		}
		log.Printf("library rescanned %v", l.root)
	})
}

func (l *Library) Files(class string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res := make([]string, len(l.files[class]))
	copy(res, l.files[class])
	return res
}

// Random picks one file of class.
func (l *Library) Random(class string) (string, error) {
	files := l.Files(class)
	if len(files) == 0 {
		return "", errors.Wrapf(ErrEmptyClass, "%v", class)
	}
	return files[rand.Intn(len(files))], nil
}

// Score returns the decoded score at path, reading it at most once between
// rescans. The returned score is shared: never modify it, transform a clone.
func (l *Library) Score(path string) (*model.Score, error) {
	l.mu.RLock()
	s, ok := l.scores[path]
	l.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if cached, ok := l.scores[path]; ok {
		s = cached
	} else {
		l.scores[path] = s
	}
	l.mu.Unlock()
	return s, nil
}

// RandomScore is Random followed by Score.
func (l *Library) RandomScore(class string) (string, *model.Score, error) {
	path, err := l.Random(class)
	if err != nil {
		return "", nil, err
	}
	s, err := l.Score(path)
	if err != nil {
		return "", nil, err
	}
	return path, s, nil
}
