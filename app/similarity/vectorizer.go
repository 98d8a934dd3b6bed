package similarity

import (
	"errors"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/podracer/app/podcast"
)

var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain no terms")

// Vectorizer turns a corpus into one vector per document. All vectors
// share the same dimension.
type Vectorizer interface {
	Vectorize(documents []string) ([][]float64, error)
}

// BagOfWords builds term-frequency vectors over the vocabulary of the
// corpus it is given. Counts are scaled to unit length; there is no
// inverse document frequency weighting.
type BagOfWords struct {
	stopWords map[string]struct{}
}

func NewBagOfWords(stopWords []string) *BagOfWords {
	b := &BagOfWords{stopWords: make(map[string]struct{}, len(stopWords))}
	for _, word := range stopWords {
		for _, token := range Tokenize(word) {
			b.stopWords[token] = struct{}{}
		}
	}
	return b
}

func (b *BagOfWords) Vectorize(documents []string) ([][]float64, error) {
	counts := make([]map[string]int, len(documents))
	vocabulary := make(map[string]int)

	for i, doc := range documents {
		counts[i] = make(map[string]int)
		for _, token := range Tokenize(podcast.CleanText(doc)) {
			if _, skip := b.stopWords[token]; skip {
				continue
			}
			counts[i][token]++
			vocabulary[token] = 0
		}
	}

	if len(vocabulary) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(vocabulary))
	for term := range vocabulary {
		terms = append(terms, term)
	}
	slices.Sort(terms)
	for i, term := range terms {
		vocabulary[term] = i
	}

	vectors := make([][]float64, len(documents))
	for i, docCounts := range counts {
		vector := make([]float64, len(terms))
		for term, count := range docCounts {
			vector[vocabulary[term]] = float64(count)
		}
		normalize(vector)
		vectors[i] = vector
	}

	return vectors, nil
}

// Tokenize case-folds text and splits it into terms of at least two
// letters or digits.
func Tokenize(text string) []string {
	text = cases.Fold().String(norm.NFKC.String(text))

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) >= 2 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// normalize scales v to unit euclidean length; zero vectors are left as is
func normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	length := math.Sqrt(sum)
	for i := range v {
		v[i] /= length
	}
}
