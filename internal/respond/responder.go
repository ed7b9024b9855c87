package respond

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Dream2Nightmare/brainbot/internal/reflection"
)

// FuzzyThreshold is the minimum similarity for a fuzzy answer. Only scores
// strictly greater than the threshold are accepted.
const FuzzyThreshold = 0.75

const answerCacheSize = 256

// unknownPhrases is the fixed fallback set used when nothing matches.
var unknownPhrases = []string{
	"I wish I knew more language...",
	"It is like it is in memory, but I dont know how to respond...",
	"I'm not that smart yet, I am sorry..",
	"I'm doing the best with what I know, and I'm sorry I dont know..",
	"I dream, therefore I am conscous...",
}

// CorpusLoader returns the current retrieval corpus: every reflection from
// the long-term and permanent memory files.
type CorpusLoader func() []reflection.Reflection

// Responder answers free-text queries by scanning the training pairs of the
// loaded corpus: exact match on the folded form first, then a Gestalt fuzzy
// match, with an associative preview-substring fallback in between.
type Responder struct {
	load  CorpusLoader
	cache *lru.Cache[string, string]

	mu           sync.Mutex
	trainedPairs int
}

// NewResponder creates a responder over the given corpus loader.
func NewResponder(load CorpusLoader) *Responder {
	cache, _ := lru.New[string, string](answerCacheSize)
	return &Responder{load: load, cache: cache}
}

// TrainOnPairs registers a batch of (input, output) pairs. Pairs with an
// empty side are rejected. No index is built; the pairs reach the retrieval
// corpus through consolidation, which embeds them in stored reflections.
func (r *Responder) TrainOnPairs(pairs []reflection.Pair) int {
	if len(pairs) == 0 {
		slog.Debug("no training pairs provided")
		return 0
	}

	trained := 0
	for _, p := range pairs {
		if p.Input() != "" && p.Output() != "" {
			trained++
		}
	}

	r.mu.Lock()
	r.trainedPairs += trained
	r.mu.Unlock()

	slog.Info("trained on pairs", "count", trained)
	return trained
}

// TrainedPairs returns the number of pairs accepted so far.
func (r *Responder) TrainedPairs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trainedPairs
}

// Invalidate drops cached answers. Called after every dream cycle, since
// consolidation grows the retrieval corpus.
func (r *Responder) Invalidate() {
	r.cache.Purge()
}

// Respond resolves a query to an answer. It never returns an error: an empty
// corpus or a failed match produces a canned fallback utterance.
//
// The associative fallback is checked inside the pair scan, right after the
// first pair, mirroring the original scan order: whenever any stored preview
// contains the folded query as a substring, the associative answer preempts
// fuzzy matching for the rest of the corpus. Exact match on the very first
// pair still wins over association.
func (r *Responder) Respond(ctx context.Context, input string) string {
	_, span := otel.Tracer("brainbot").Start(ctx, "respond")
	defer span.End()

	folded := Fold(Normalize(input))
	span.SetAttributes(attribute.String("query.folded", folded))

	if answer, ok := r.cache.Get(folded); ok {
		span.SetAttributes(attribute.String("match", "cached"))
		return answer
	}

	corpus := r.load()
	if len(corpus) == 0 {
		slog.Warn("no long-term memory found")
		return "I have no memory of that."
	}

	bestScore := 0.0
	bestInput := ""
	bestOutput := ""
	associationChecked := false

	for _, refl := range corpus {
		for _, pair := range refl.TrainingPairs {
			foldedPair := Fold(Normalize(pair.Input()))

			if foldedPair == folded {
				slog.Info("exact match", "input", pair.Input())
				span.SetAttributes(attribute.String("match", "exact"))
				r.cache.Add(folded, pair.Output())
				return pair.Output()
			}

			if score := Ratio(folded, foldedPair); score > bestScore {
				bestScore = score
				bestInput = pair.Input()
				bestOutput = pair.Output()
			}

			if !associationChecked {
				associationChecked = true
				if echoes := findAssociations(corpus, folded); len(echoes) > 0 {
					slog.Info("associative memory activated", "matches", len(echoes))
					span.SetAttributes(attribute.String("match", "associative"))
					answer := composeEchoes(echoes)
					r.cache.Add(folded, answer)
					return answer
				}
			}
		}
	}

	if bestScore > FuzzyThreshold {
		slog.Info("fuzzy match", "score", bestScore, "input", bestInput)
		span.SetAttributes(attribute.String("match", "fuzzy"))
		r.cache.Add(folded, bestOutput)
		return bestOutput
	}

	slog.Info("no match found", "query", input)
	span.SetAttributes(attribute.String("match", "none"))
	return UnknownPhrase()
}

// UnknownPhrase returns a pseudo-random canned fallback utterance.
func UnknownPhrase() string {
	return unknownPhrases[rand.Intn(len(unknownPhrases))]
}

// findAssociations returns previews containing the folded query as a
// substring, in corpus order.
func findAssociations(corpus []reflection.Reflection, folded string) []string {
	if folded == "" {
		return nil
	}
	var echoes []string
	for _, refl := range corpus {
		preview := strings.ToLower(refl.Preview)
		if strings.Contains(preview, folded) {
			snippet := refl.Preview
			if len(snippet) > 120 {
				snippet = snippet[:120]
			}
			echoes = append(echoes, snippet)
		}
	}
	return echoes
}

func composeEchoes(echoes []string) string {
	return "I found echoes in the archive:\n— " + strings.Join(echoes, "\n— ")
}
