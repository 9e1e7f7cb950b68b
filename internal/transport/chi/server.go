// Package chi serves the joke query API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jokedex/internal/domain"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
	generateuc "github.com/kailas-cloud/jokedex/internal/usecase/generate"
	healthuc "github.com/kailas-cloud/jokedex/internal/usecase/health"
	queryuc "github.com/kailas-cloud/jokedex/internal/usecase/query"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface on top of the use case services.
type Server struct {
	query         *queryuc.Service
	generators    *generateuc.Registry
	health        *healthuc.Service
	defaultTopN   int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	query *queryuc.Service,
	generators *generateuc.Registry,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		query:       query,
		generators:  generators,
		health:      health,
		defaultTopN: queryuc.DefaultTopN,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		datasetNotFoundHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeGeneratorNotFound),
		validationHandler,
		sentinelHandler(domain.ErrMissingScore, http.StatusUnprocessableEntity, ErrorResponseCodeMissingScore),
		sentinelHandler(domain.ErrGenerationFailed, http.StatusBadGateway, ErrorResponseCodeGenerationFailed),
	}
	return s
}

// WithDefaultTopN sets the n used by TopJokes when the request omits it.
func (s *Server) WithDefaultTopN(n int) *Server {
	if n > 0 {
		s.defaultTopN = n
	}
	return s
}

// ListDatasets handles GET /datasets.
func (s *Server) ListDatasets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DatasetCountsResponse{Counts: s.query.CountByDataset(r.Context())})
}

// RandomJoke handles GET /datasets/{dataset}/random.
func (s *Server) RandomJoke(w http.ResponseWriter, r *http.Request, dataset string) {
	j, err := s.query.Random(r.Context(), dataset)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jokeToResponse(&j))
}

// TopJokes handles GET /datasets/{dataset}/top.
func (s *Server) TopJokes(w http.ResponseWriter, r *http.Request, dataset string, params TopJokesParams) {
	n := s.defaultTopN
	if params.N != nil {
		n = *params.N
	}

	jokes, err := s.query.Top(r.Context(), dataset, n)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jokesToList(jokes))
}

// SearchJokes handles GET /search.
func (s *Server) SearchJokes(w http.ResponseWriter, r *http.Request, params SearchJokesParams) {
	var datasets []string
	if params.Dataset != nil {
		datasets = *params.Dataset
	}

	var (
		res map[string][]joke.Joke
		err error
	)
	if params.MinScore != nil {
		res, err = s.query.SearchWithMinScore(r.Context(), params.Q, *params.MinScore, datasets)
	} else {
		res, err = s.query.Search(r.Context(), params.Q, datasets)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := SearchResponse{Results: make(map[string][]JokeResponse, len(res))}
	for name, jokes := range res {
		resp.Results[name] = jokesToResponse(jokes)
		resp.Total += len(jokes)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListJokes handles GET /jokes.
func (s *Server) ListJokes(w http.ResponseWriter, r *http.Request, params ListJokesParams) {
	descending := true
	if params.Order != nil {
		switch *params.Order {
		case ListJokesParamsOrderDesc:
		case ListJokesParamsOrderAsc:
			descending = false
		default:
			writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed,
				fmt.Sprintf("order must be %q or %q", ListJokesParamsOrderAsc, ListJokesParamsOrderDesc))
			return
		}
	}

	jokes, err := s.query.AllSortedByScore(r.Context(), descending)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jokesToList(jokes))
}

// ListGenerators handles GET /generators.
func (s *Server) ListGenerators(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GeneratorListResponse{Generators: s.generators.Names()})
}

// GenerateJoke handles POST /generators/{generator}/jokes.
func (s *Server) GenerateJoke(w http.ResponseWriter, r *http.Request, generator string) {
	j, err := s.generators.Generate(r.Context(), generator)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, GeneratedJokeResponse{Generator: generator, Joke: jokeToResponse(&j)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BadRequestHandler renders parameter binding failures.
func BadRequestHandler(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid request"
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = "invalid parameter " + pe.ParamName
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyDataset,
		domain.ErrInvalidArgument,
		domain.ErrMissingScore,
		domain.ErrNotFound,
		domain.ErrGenerationFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// datasetNotFoundHandler reports the missing dataset by name.
func datasetNotFoundHandler(w http.ResponseWriter, err error, _ string) bool {
	var nf *domain.DatasetNotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	writeError(w, http.StatusNotFound, ErrorResponseCodeDatasetNotFound, nf.Error())
	return true
}

// validationHandler echoes the validation failure; it only ever describes caller input.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidArgument) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error",
		zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func jokeToResponse(j *joke.Joke) JokeResponse {
	return JokeResponse{
		Id:    j.ID(),
		Title: j.Title(),
		Body:  j.Body(),
		Score: j.ScorePtr(),
	}
}

func jokesToResponse(jokes []joke.Joke) []JokeResponse {
	out := make([]JokeResponse, len(jokes))
	for i := range jokes {
		out[i] = jokeToResponse(&jokes[i])
	}
	return out
}

func jokesToList(jokes []joke.Joke) JokeListResponse {
	return JokeListResponse{Items: jokesToResponse(jokes), Total: len(jokes)}
}
