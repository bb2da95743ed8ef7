package domain

// User-facing messages. These never include internal error detail.
const (
	MessageNoMovies      = "No movies found matching your preferences. Please try different criteria."
	MessageInternalError = "Internal error. Please try again."
	MessageNoPollAnswers = "At least one poll answer is required."
	MessageBadPayload    = "Invalid request payload."
)

// Recommendation is the movie chosen for the group.
type Recommendation struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ReleaseYear string  `json:"releaseYear"`
	Poster      *string `json:"poster"`
}

// GeneratedAnswer is the structured final answer produced by the generator.
type GeneratedAnswer struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	ReleaseYear          string `json:"releaseYear"`
	TimeLimitMinutes     string `json:"timeLimitMinutes"`
	MovieDurationMinutes string `json:"movieDurationMinutes"`
}

// ErrorKind classifies a failed recommendation for the request boundary.
type ErrorKind string

// Recommendation error kinds.
const (
	// ErrorKindBadRequest means the request payload was unusable.
	ErrorKindBadRequest ErrorKind = "bad_request"

	// ErrorKindNoCandidates means retrieval found nothing to recommend.
	ErrorKindNoCandidates ErrorKind = "no_candidates"

	// ErrorKindInternal means an internal or upstream failure.
	ErrorKindInternal ErrorKind = "internal"
)

// Result is the tagged outcome of a recommendation request:
// either Ok with a Recommendation or Err with a kind and a user-facing message.
type Result struct {
	recommendation *Recommendation
	kind           ErrorKind
	message        string
}

// Ok builds a successful result.
func Ok(rec Recommendation) Result {
	return Result{recommendation: &rec}
}

// Err builds a failed result.
func Err(kind ErrorKind, message string) Result {
	return Result{kind: kind, message: message}
}

// IsOk returns true if the result carries a recommendation.
func (r Result) IsOk() bool {
	return r.recommendation != nil
}

// Recommendation returns the recommendation and whether one is present.
func (r Result) Recommendation() (Recommendation, bool) {
	if r.recommendation == nil {
		return Recommendation{}, false
	}
	return *r.recommendation, true
}

// Kind returns the error kind. Empty for Ok results.
func (r Result) Kind() ErrorKind {
	return r.kind
}

// Message returns the user-facing error message. Empty for Ok results.
func (r Result) Message() string {
	return r.message
}
