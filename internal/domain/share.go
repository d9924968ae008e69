package domain

// ShareQuery holds the raw share_target parameters of one request.
// A nil field means the parameter was absent from the query string.
type ShareQuery struct {
	URL   *string
	Text  *string
	Title *string
}
