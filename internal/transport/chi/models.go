package chi

// ErrorResponseCode is a stable machine-readable error code.
type ErrorResponseCode string

// Error codes returned by the API.
const (
	ErrorResponseCodeBadRequest        ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized      ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed  ErrorResponseCode = "validation_failed"
	ErrorResponseCodeDatasetNotFound   ErrorResponseCode = "dataset_not_found"
	ErrorResponseCodeGeneratorNotFound ErrorResponseCode = "generator_not_found"
	ErrorResponseCodeMissingScore      ErrorResponseCode = "missing_score"
	ErrorResponseCodeGenerationFailed  ErrorResponseCode = "generation_failed"
	ErrorResponseCodeInternalError     ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// JokeResponse is a single joke record.
type JokeResponse struct {
	Id    string `json:"id"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
	Score *int   `json:"score,omitempty"`
}

// JokeListResponse is an ordered list of jokes.
type JokeListResponse struct {
	Items []JokeResponse `json:"items"`
	Total int            `json:"total"`
}

// SearchResponse groups matches by dataset.
type SearchResponse struct {
	Results map[string][]JokeResponse `json:"results"`
	Total   int                       `json:"total"`
}

// DatasetCountsResponse maps dataset names to record counts.
type DatasetCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// GeneratorListResponse lists registered generator names.
type GeneratorListResponse struct {
	Generators []string `json:"generators"`
}

// GeneratedJokeResponse is a joke produced by a generator.
type GeneratedJokeResponse struct {
	Generator string       `json:"generator"`
	Joke      JokeResponse `json:"joke"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ListJokesParamsOrder is the sort direction of GET /jokes.
type ListJokesParamsOrder string

// Sort directions.
const (
	ListJokesParamsOrderAsc  ListJokesParamsOrder = "asc"
	ListJokesParamsOrderDesc ListJokesParamsOrder = "desc"
)

// TopJokesParams are the query parameters of GET /datasets/{dataset}/top.
type TopJokesParams struct {
	N *int `form:"n,omitempty" json:"n,omitempty"`
}

// SearchJokesParams are the query parameters of GET /search.
type SearchJokesParams struct {
	Q        string    `form:"q" json:"q"`
	Dataset  *[]string `form:"dataset,omitempty" json:"dataset,omitempty"`
	MinScore *int      `form:"min_score,omitempty" json:"min_score,omitempty"`
}

// ListJokesParams are the query parameters of GET /jokes.
type ListJokesParams struct {
	Order *ListJokesParamsOrder `form:"order,omitempty" json:"order,omitempty"`
}
