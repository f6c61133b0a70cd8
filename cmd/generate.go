package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/library"
	"github.com/jsphweid/maestro/model"
	"github.com/jsphweid/maestro/util"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"
)

var generateParams model.Parameters
var generateClass string
var generateCount int
var generateWorkers int
var generateOut string

func init() {
	addParamFlags(generateCmd, &generateParams)
	f := generateCmd.Flags()
	f.StringVarP(&generateClass, "class", "c", "", "class folder to pick from (default the first class)")
	f.IntVarP(&generateCount, "count", "n", 1, "number of files to generate")
	f.IntVarP(&generateWorkers, "workers", "w", 4, "files transformed at once")
	f.StringVarP(&generateOut, "out", "o", constants.GetOutDir(), "output directory")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates midi files from random library picks",
	Long:  `Picks random files of a class from the library, transforms each and writes them as <uuid>.mid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		classes := constants.GetClasses()
		lib, err := library.Load(constants.GetLibraryDir(), classes)
		if err != nil {
			return err
		}
		if generateClass == "" && len(classes) > 0 {
			generateClass = classes[0]
		}
		_, err = generate(lib, generateClass, generateCount, generateWorkers, generateOut, generateParams)
		return err
	},
}

// generate writes count transformed random picks of class into outDir and
// returns the written paths.
func generate(lib *library.Library, class string, count int, workers int, outDir string, p model.Parameters) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := util.EnsureOutputDir(outDir); err != nil {
		return nil, errors.Wrap(err, "could not create output dir")
	}

	var mu sync.Mutex
	var written []string
	var errs []error

	swg := sizedwaitgroup.New(util.Max(workers, 1))
	for i := 0; i < count; i++ {
		swg.Add()
		go func(i int) {
			defer swg.Done()
			path, source, err := generateOne(lib, class, outDir, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			fmt.Printf("Generated %v of %v: %v (from %v)\n", i+1, count, path, filepath.Base(source))
			written = append(written, path)
		}(i)
	}
	swg.Wait()

	if len(errs) > 0 {
		return written, errors.WithMessagef(errs[0], "%d of %d files failed", len(errs), count)
	}
	return written, nil
}

func generateOne(lib *library.Library, class string, outDir string, p model.Parameters) (string, string, error) {
	source, src, err := lib.RandomScore(class)
	if err != nil {
		return "", "", err
	}
	data, err := render(src, p)
	if err != nil {
		return "", source, errors.WithMessage(err, source)
	}
	path := filepath.Join(outDir, uuid.New().String()+".mid")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", source, err
	}
	return path, source, nil
}
