package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is the set of operations served over HTTP.
type ServerInterface interface {
	// ListDatasets handles GET /datasets.
	ListDatasets(w http.ResponseWriter, r *http.Request)
	// RandomJoke handles GET /datasets/{dataset}/random.
	RandomJoke(w http.ResponseWriter, r *http.Request, dataset string)
	// TopJokes handles GET /datasets/{dataset}/top.
	TopJokes(w http.ResponseWriter, r *http.Request, dataset string, params TopJokesParams)
	// SearchJokes handles GET /search.
	SearchJokes(w http.ResponseWriter, r *http.Request, params SearchJokesParams)
	// ListJokes handles GET /jokes.
	ListJokes(w http.ResponseWriter, r *http.Request, params ListJokesParams)
	// ListGenerators handles GET /generators.
	ListGenerators(w http.ResponseWriter, r *http.Request)
	// GenerateJoke handles POST /generators/{generator}/jokes.
	GenerateJoke(w http.ResponseWriter, r *http.Request, generator string)
	// HealthCheck handles GET /health.
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Metrics handles GET /metrics.
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// paramBinder adapts raw requests to typed ServerInterface calls.
type paramBinder struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (b *paramBinder) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		b.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return "", false
	}
	return value, true
}

func (b *paramBinder) queryParam(
	w http.ResponseWriter, r *http.Request, name string, required bool, dest any,
) bool {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		b.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

func (b *paramBinder) randomJoke(w http.ResponseWriter, r *http.Request) {
	dataset, ok := b.pathParam(w, r, "dataset")
	if !ok {
		return
	}
	b.handler.RandomJoke(w, r, dataset)
}

func (b *paramBinder) topJokes(w http.ResponseWriter, r *http.Request) {
	dataset, ok := b.pathParam(w, r, "dataset")
	if !ok {
		return
	}
	var params TopJokesParams
	if !b.queryParam(w, r, "n", false, &params.N) {
		return
	}
	b.handler.TopJokes(w, r, dataset, params)
}

func (b *paramBinder) searchJokes(w http.ResponseWriter, r *http.Request) {
	var params SearchJokesParams
	if !b.queryParam(w, r, "q", true, &params.Q) ||
		!b.queryParam(w, r, "dataset", false, &params.Dataset) ||
		!b.queryParam(w, r, "min_score", false, &params.MinScore) {
		return
	}
	b.handler.SearchJokes(w, r, params)
}

func (b *paramBinder) listJokes(w http.ResponseWriter, r *http.Request) {
	var params ListJokesParams
	if !b.queryParam(w, r, "order", false, &params.Order) {
		return
	}
	b.handler.ListJokes(w, r, params)
}

func (b *paramBinder) generateJoke(w http.ResponseWriter, r *http.Request) {
	generator, ok := b.pathParam(w, r, "generator")
	if !ok {
		return
	}
	b.handler.GenerateJoke(w, r, generator)
}

// HandlerWithOptions mounts every operation of si on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	errorHandler := options.ErrorHandlerFunc
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	b := &paramBinder{handler: si, errorHandlerFunc: errorHandler}

	r.Get("/datasets", si.ListDatasets)
	r.Get("/datasets/{dataset}/random", b.randomJoke)
	r.Get("/datasets/{dataset}/top", b.topJokes)
	r.Get("/search", b.searchJokes)
	r.Get("/jokes", b.listJokes)
	r.Get("/generators", si.ListGenerators)
	r.Post("/generators/{generator}/jokes", b.generateJoke)
	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	return r
}
