// Package summary produces a plain-text digest of ticket aggregates using a
// remote text-generation model. Only ids, dates, stores, statuses and item
// descriptions with quantities leave the service; emails and reasons never do.
package summary

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"special-requests/internal/cache"
	"special-requests/internal/metrics"
	"special-requests/internal/models"
)

const (
	EmptyMessage   = "There are no requests in the current filter to summarize."
	FailureMessage = "Sorry, the AI summary could not be generated at this time."
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Digest struct {
	ID        string       `json:"id"`
	Date      string       `json:"date"`
	Store     string       `json:"store"`
	Status    string       `json:"status"`
	ItemCount int          `json:"itemCount"`
	Items     []ItemDigest `json:"items"`
}

type ItemDigest struct {
	Description string `json:"prodesc"`
	Qty         int    `json:"qty"`
}

// Sanitize projects tickets onto the fields allowed in a prompt.
func Sanitize(ts []models.Ticket) []Digest {
	out := make([]Digest, 0, len(ts))
	for _, t := range ts {
		d := Digest{
			ID:        t.ID,
			Store:     t.Store,
			Status:    string(t.Status),
			ItemCount: len(t.Items),
			Items:     make([]ItemDigest, 0, len(t.Items)),
		}
		if !t.SubmittedAt.IsZero() {
			d.Date = t.SubmittedAt.Format(time.RFC3339)
		}
		for _, it := range t.Items {
			d.Items = append(d.Items, ItemDigest{Description: it.ItemDescription, Qty: it.Quantity})
		}
		out = append(out, d)
	}
	return out
}

var promptTmpl = template.Must(template.New("summary").Parse(`You are a data analyst for a retail company. The JSON array below lists special item requests raised by stores.
Write a concise plain-text summary that covers:
- a short opening sentence;
- the number of distinct request tickets;
- how many tickets are Pending, Ongoing, Completed and Rejected;
- the three items requested most often across all tickets;
- the three stores with the most tickets;
- one or two other patterns worth noting, such as unusually large quantities.

Keep it clear, professional and easy to read.

JSON data:
{{.}}
`))

// BuildPrompt renders the prompt for the given digests.
func BuildPrompt(ds []Digest) (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, string(data)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type Service struct {
	gen   Generator
	cache cache.JSON
	log   zerolog.Logger
}

// NewService wires a generator and an optional cache. A nil generator makes
// every non-empty summary fail with FailureMessage.
func NewService(gen Generator, c cache.JSON, log zerolog.Logger) *Service {
	return &Service{gen: gen, cache: c, log: log}
}

// Summarize never fails: errors are logged and replaced by FailureMessage.
func (s *Service) Summarize(ctx context.Context, ts []models.Ticket) string {
	if len(ts) == 0 {
		metrics.Summaries.WithLabelValues("empty").Inc()
		return EmptyMessage
	}
	if s.gen == nil {
		s.log.Warn().Msg("ai summary requested but no generator is configured")
		metrics.Summaries.WithLabelValues("failed").Inc()
		return FailureMessage
	}

	prompt, err := BuildPrompt(Sanitize(ts))
	if err != nil {
		s.log.Error().Err(err).Msg("build summary prompt")
		metrics.Summaries.WithLabelValues("failed").Inc()
		return FailureMessage
	}
	key := cacheKey(prompt)

	if s.cache != nil {
		var cached string
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("summary cache read")
		} else if hit && cached != "" {
			metrics.Summaries.WithLabelValues("cached").Inc()
			return cached
		}
	}

	text, err := s.gen.Generate(ctx, prompt)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = errEmptyCompletion
	}
	if err != nil {
		s.log.Error().Err(err).Int("tickets", len(ts)).Msg("ai summary generation failed")
		metrics.Summaries.WithLabelValues("failed").Inc()
		return FailureMessage
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, text); err != nil {
			s.log.Warn().Err(err).Msg("summary cache write")
		}
	}
	metrics.Summaries.WithLabelValues("generated").Inc()
	return text
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "summary:" + hex.EncodeToString(sum[:])
}
