package intake

import "github.com/MrSnakeDoc/keeplater/internal/domain"

// ReasonNoURLFound is the rejection reason when no input yields a valid URL.
const ReasonNoURLFound = "no_url_found"

// Status is the kind of an ingestion outcome.
type Status int

const (
	StatusRejected Status = iota + 1
	StatusSaved
	StatusAlreadySaved
)

func (s Status) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusSaved:
		return "saved"
	case StatusAlreadySaved:
		return "already_saved"
	default:
		return "unknown"
	}
}

// Outcome is the result of ingesting one ShareQuery.
type Outcome struct {
	Status Status
	Reason string       // set when Status == StatusRejected
	Entry  domain.Entry // new or existing entry otherwise
}

func rejected(reason string) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason}
}

func saved(e domain.Entry) Outcome {
	return Outcome{Status: StatusSaved, Entry: e}
}

func alreadySaved(e domain.Entry) Outcome {
	return Outcome{Status: StatusAlreadySaved, Entry: e}
}
