package similarity

import (
	"errors"
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Cooking Recipes, and KITCHEN tips! A b")

	expected := []string{"cooking", "recipes", "and", "kitchen", "tips"}
	if len(tokens) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, tokens)
	}
	for i := range expected {
		if tokens[i] != expected[i] {
			t.Errorf("Expected token %d to be '%s', got '%s'", i, expected[i], tokens[i])
		}
	}
}

func TestTokenize_CaseFolding(t *testing.T) {
	tokens := Tokenize("Straße ＦＯＯＤ")

	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %v", tokens)
	}
	if tokens[0] != "strasse" {
		t.Errorf("Expected 'strasse', got '%s'", tokens[0])
	}
	if tokens[1] != "food" {
		t.Errorf("Expected full-width letters to normalize to 'food', got '%s'", tokens[1])
	}
}

func TestBagOfWords_Vectorize(t *testing.T) {
	vectorizer := NewBagOfWords(nil)

	vectors, err := vectorizer.Vectorize([]string{"kitchen recipes", "stock market news", ""})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(vectors) != 3 {
		t.Fatalf("Expected 3 vectors, got %d", len(vectors))
	}

	// Vocabulary: kitchen, market, news, recipes, stock
	for i, v := range vectors {
		if len(v) != 5 {
			t.Errorf("Vector %d: expected dimension 5, got %d", i, len(v))
		}
	}

	half := 1 / math.Sqrt2
	if math.Abs(vectors[0][0]-half) > 1e-9 || math.Abs(vectors[0][3]-half) > 1e-9 {
		t.Errorf("Expected kitchen and recipes weights %f, got %v", half, vectors[0])
	}
	if vectors[0][1] != 0 || vectors[0][2] != 0 || vectors[0][4] != 0 {
		t.Errorf("Expected zero weights for absent terms, got %v", vectors[0])
	}

	for i := 0; i < 2; i++ {
		var sum float64
		for _, x := range vectors[i] {
			sum += x * x
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Vector %d should have unit length, got squared length %f", i, sum)
		}
	}

	for _, x := range vectors[2] {
		if x != 0 {
			t.Errorf("Empty document should give a zero vector, got %v", vectors[2])
			break
		}
	}
}

func TestBagOfWords_TermCounts(t *testing.T) {
	vectorizer := NewBagOfWords(nil)

	vectors, err := vectorizer.Vectorize([]string{"news news sports"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// news counted twice: (2, 1) / sqrt(5)
	if math.Abs(vectors[0][0]-2/math.Sqrt(5)) > 1e-9 {
		t.Errorf("Expected news weight %f, got %f", 2/math.Sqrt(5), vectors[0][0])
	}
	if math.Abs(vectors[0][1]-1/math.Sqrt(5)) > 1e-9 {
		t.Errorf("Expected sports weight %f, got %f", 1/math.Sqrt(5), vectors[0][1])
	}
}

func TestBagOfWords_StripsHTML(t *testing.T) {
	vectorizer := NewBagOfWords(nil)

	vectors, err := vectorizer.Vectorize([]string{"<p>history</p>", "<b>history</b>"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Only "history" survives; tag names are not terms
	if len(vectors[0]) != 1 {
		t.Errorf("Expected a single term, got dimension %d", len(vectors[0]))
	}
}

func TestBagOfWords_StopWords(t *testing.T) {
	vectorizer := NewBagOfWords([]string{"And", "the"})

	vectors, err := vectorizer.Vectorize([]string{"science and the news"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(vectors[0]) != 2 {
		t.Errorf("Expected stop words to be dropped leaving 2 terms, got %d", len(vectors[0]))
	}
}

func TestBagOfWords_EmptyVocabulary(t *testing.T) {
	vectorizer := NewBagOfWords(nil)

	for _, corpus := range [][]string{
		{"", ""},
		{"   ", "<p></p>"},
		{"a b c"},
		{},
	} {
		_, err := vectorizer.Vectorize(corpus)
		if !errors.Is(err, ErrEmptyVocabulary) {
			t.Errorf("Expected ErrEmptyVocabulary for %q, got %v", corpus, err)
		}
	}
}
