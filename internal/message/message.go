// Package message defines the core data types flowing through the jukebox.
package message

import (
	"fmt"
	"strings"

	"github.com/nadzzz/jukebox/internal/validate"
)

// Confidence is the model's self-reported certainty in a classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Trusted reports whether a decision may be acted on. Anything other than
// high or medium, including unknown values, is untrusted.
func (c Confidence) Trusted() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium
}

// RequestType names what a listener asked the jukebox for.
type RequestType string

const (
	RequestPlay   RequestType = "play"
	RequestCustom RequestType = "custom"
	RequestNone   RequestType = "none"
)

// RequestIntent is the classification of an utterance heard between jokes.
type RequestIntent struct {
	Relevant   bool        `json:"relevant"`
	Type       RequestType `json:"type"`
	Confidence Confidence  `json:"confidence"`
}

// Schema implements validate.Response.
func (RequestIntent) Schema() validate.Schema {
	return validate.Schema{Name: "request_intent", Fields: []validate.Field{
		{Name: "relevant", Kind: validate.Bool},
		{Name: "type", Kind: validate.String},
		{Name: "confidence", Kind: validate.String},
	}}
}

// Actionable reports whether the intent should start a picker.
func (r RequestIntent) Actionable() bool {
	return r.Relevant && r.Confidence.Trusted() && (r.Type == RequestPlay || r.Type == RequestCustom)
}

// DefaultRequestIntent is used when classification fails.
func DefaultRequestIntent() RequestIntent {
	return RequestIntent{Relevant: false, Type: RequestNone, Confidence: ConfidenceLow}
}

// Evaluation is the verdict and roast for a song choice.
type Evaluation struct {
	Acceptable bool   `json:"acceptable"`
	Roast      string `json:"roast"`
}

// Schema implements validate.Response.
func (Evaluation) Schema() validate.Schema {
	return validate.Schema{Name: "evaluation", Fields: []validate.Field{
		{Name: "acceptable", Kind: validate.Bool},
		{Name: "roast", Kind: validate.String},
	}}
}

// DefaultEvaluation is used when the model's answer cannot be validated.
func DefaultEvaluation() Evaluation {
	return Evaluation{Acceptable: false, Roast: "Even your song choice is basic. Try again, normie."}
}

// FailedEvaluation is used when the completion call itself fails.
func FailedEvaluation(err error) Evaluation {
	return Evaluation{Acceptable: false, Roast: fmt.Sprintf("Nice try, but I can't even process your song choice: %v", err)}
}

// Decision is the outcome of a confirmation exchange.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionConfirmed
	DecisionChangeSong
)

func (d Decision) String() string {
	switch d {
	case DecisionConfirmed:
		return "confirmed"
	case DecisionChangeSong:
		return "change_song"
	default:
		return "cancel"
	}
}

// Confirmation is the classification of a reply to "do you confirm?".
type Confirmation struct {
	Confirmed  bool       `json:"confirmed"`
	ChangeSong bool       `json:"change_song"`
	Cancel     bool       `json:"cancel"`
	Confidence Confidence `json:"confidence"`
}

// Schema implements validate.Response.
func (Confirmation) Schema() validate.Schema {
	return validate.Schema{Name: "confirmation", Fields: []validate.Field{
		{Name: "confirmed", Kind: validate.Bool},
		{Name: "change_song", Kind: validate.Bool},
		{Name: "cancel", Kind: validate.Bool},
		{Name: "confidence", Kind: validate.String},
	}}
}

// DefaultConfirmation is used when classification fails.
func DefaultConfirmation() Confirmation {
	return Confirmation{Cancel: true, Confidence: ConfidenceLow}
}

// Decide applies the fixed priority confirmed, change_song, cancel. A reply
// with every flag false is treated as a cancel.
func (c Confirmation) Decide() Decision {
	switch {
	case c.Confirmed:
		return DecisionConfirmed
	case c.ChangeSong:
		return DecisionChangeSong
	default:
		return DecisionCancel
	}
}

// SongDetails describes a requested song. Plain picks set only SongName.
type SongDetails struct {
	SongName          string `json:"song_name" bson:"song_name"`
	Genre             string `json:"genre,omitempty" bson:"genre,omitempty"`
	Styles            string `json:"styles,omitempty" bson:"styles,omitempty"`
	LyricsDescription string `json:"lyrics_description,omitempty" bson:"lyrics_description,omitempty"`
}

// Custom reports whether the details came from the custom song flow.
func (s SongDetails) Custom() bool {
	return s.Genre != "" || s.Styles != "" || s.LyricsDescription != ""
}

// Summary renders the details as a confirmation question.
func (s SongDetails) Summary() string {
	name := strings.TrimSpace(s.SongName)
	if name == "" {
		name = "your song"
	}
	if !s.Custom() {
		return fmt.Sprintf("Are you sure you want to proceed with %s?", name)
	}
	genre := strings.TrimSpace(s.Genre)
	if genre == "" {
		genre = "specified"
	}
	return fmt.Sprintf("Are you sure you want to proceed with %s in the %s genre?", name, genre)
}

// Outcome is the terminal state of an interaction loop.
type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeAccepted
	OutcomeRetry // loop again from the current prompt
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRetry:
		return "retry"
	default:
		return "cancelled"
	}
}
