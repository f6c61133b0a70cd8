package cmd

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/db"
	"github.com/jsphweid/maestro/library"
	"github.com/jsphweid/maestro/midi"
	"github.com/jsphweid/maestro/model"
	"github.com/jsphweid/maestro/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves the transform API on $PORT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library.Load(constants.GetLibraryDir(), constants.GetClasses())
		if err != nil {
			return err
		}
		meta, err := db.New()
		if err != nil {
			return err
		}
		serve(NewRouter(lib, meta, constants.GetRateLimit()))
		return nil
	},
}

type server struct {
	lib  *library.Library
	meta *db.Client
}

// NewRouter builds the API handler. meta may be nil.
func NewRouter(lib *library.Library, meta *db.Client, requestsPerSecond float64) http.Handler {
	s := &server{lib: lib, meta: meta}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/transform", s.handleTransform).Methods(http.MethodPost)
	router.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodGet)
	router.HandleFunc("/classes", s.handleClasses).Methods(http.MethodGet)
	router.HandleFunc("/instruments", handleInstruments).Methods(http.MethodGet)
	router.HandleFunc("/library/rescan", s.handleRescan).Methods(http.MethodPost)
	router.Use(logRequests)
	router.Use(limit(rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1)))

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		ExposedHeaders: []string{"Content-Disposition", "X-Maestro-Source", "X-Request-Id"},
	}).Handler(router)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%v %v %v %v", id, r.Method, r.URL.Path, time.Since(start))
	})
}

func limit(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, errors.New("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidParameter):
		return http.StatusUnprocessableEntity
	case errors.Is(err, library.ErrEmptyClass):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error(), Kind: model.KindOf(err)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeMidi(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", constants.MidiMime)
	w.Header().Set("Content-Disposition", `attachment; filename="`+constants.OutputFilename+`"`)
	w.Write(data)
}

func (s *server) handleTransform(w http.ResponseWriter, r *http.Request) {
	params, err := model.ParseParameters(r.URL.Query())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxUploadSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	src, err := midi.Decode(body)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	data, err := render(src, params)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeMidi(w, data)
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	params, err := model.ParseParameters(r.URL.Query())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	class := r.URL.Query().Get("class")
	source, src, err := s.lib.RandomScore(class)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	data, err := render(src, params)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("X-Maestro-Source", filepath.Base(source))
	writeMidi(w, data)
}

func (s *server) handleClasses(w http.ResponseWriter, r *http.Request) {
	res := make([]model.ClassSummary, 0)
	for _, class := range s.lib.Classes() {
		files := s.lib.Files(class)
		summary := model.ClassSummary{Name: class, NumFiles: len(files)}
		if s.meta != nil {
			names := make([]string, len(files))
			for i, f := range files {
				names[i] = filepath.Base(f)
			}
			metadata, err := s.meta.GetAll(names)
			if err != nil {
				log.Printf("metadata lookup for %v failed: %v", class, err)
			} else if len(metadata) > 0 {
				summary.Metadata = metadata
			}
		}
		res = append(res, summary)
	}
	writeJSON(w, res)
}

func handleInstruments(w http.ResponseWriter, r *http.Request) {
	var res model.InstrumentsResponse
	for _, program := range util.GetKeysSorted(constants.Instruments) {
		res.Instruments = append(res.Instruments, model.Instrument{Program: program, Name: constants.Instruments[program]})
	}
	res.NoteNames = constants.NoteNames
	writeJSON(w, res)
}

func (s *server) handleRescan(w http.ResponseWriter, r *http.Request) {
	s.lib.RequestRescan()
	w.WriteHeader(http.StatusAccepted)
}

func serve(handler http.Handler) {
	port := constants.GetPort()
	log.Printf("Running server on port: %v", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
