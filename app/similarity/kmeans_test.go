package similarity

import (
	"testing"
)

func TestKMeans_SeparatedGroups(t *testing.T) {
	vectors := [][]float64{
		{0, 0},
		{0, 0.1},
		{10, 10},
		{10, 10.1},
	}

	labels := NewKMeans().Cluster(vectors, 2)

	if len(labels) != 4 {
		t.Fatalf("Expected 4 labels, got %d", len(labels))
	}
	if labels[0] != labels[1] {
		t.Errorf("Expected first two vectors together, got %v", labels)
	}
	if labels[2] != labels[3] {
		t.Errorf("Expected last two vectors together, got %v", labels)
	}
	if labels[0] == labels[2] {
		t.Errorf("Expected the two groups apart, got %v", labels)
	}
}

func TestKMeans_MoreClustersThanVectors(t *testing.T) {
	vectors := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	labels := NewKMeans().Cluster(vectors, 15)

	if len(labels) != 3 {
		t.Fatalf("Expected 3 labels, got %d", len(labels))
	}
	distinct := map[int]bool{}
	for _, label := range labels {
		distinct[label] = true
	}
	if len(distinct) != 3 {
		t.Errorf("Expected every vector in its own cluster, got %v", labels)
	}
}

func TestKMeans_IdenticalVectors(t *testing.T) {
	vectors := [][]float64{
		{1, 0},
		{1, 0},
		{1, 0},
	}

	labels := NewKMeans().Cluster(vectors, 2)

	for i, label := range labels {
		if label != labels[0] {
			t.Errorf("Expected identical vectors in one cluster, vector %d has label %d", i, label)
		}
	}
}

func TestKMeans_ZeroVectors(t *testing.T) {
	vectors := [][]float64{{}, {}}

	labels := NewKMeans().Cluster(vectors, 15)

	if len(labels) != 2 {
		t.Fatalf("Expected 2 labels, got %d", len(labels))
	}
	if labels[0] != labels[1] {
		t.Errorf("Expected a single cluster, got %v", labels)
	}
}

func TestKMeans_Empty(t *testing.T) {
	labels := NewKMeans().Cluster(nil, 3)

	if len(labels) != 0 {
		t.Errorf("Expected no labels, got %v", labels)
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	vectors := [][]float64{
		{0.2, 0.8}, {0.9, 0.1}, {0.5, 0.5}, {0.1, 0.9}, {0.8, 0.3}, {0.4, 0.6},
	}
	km := NewKMeans()

	first := km.Cluster(vectors, 3)
	second := km.Cluster(vectors, 3)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected identical labels, got %v and %v", first, second)
		}
	}
}

func TestKMeans_TextVectors(t *testing.T) {
	vectors, err := NewBagOfWords(nil).Vectorize([]string{
		"cooking recipes and kitchen tips",
		"kitchen recipes",
		"stock market news",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	labels := NewKMeans().Cluster(vectors, 2)

	if labels[0] != labels[1] {
		t.Errorf("Expected the kitchen documents together, got %v", labels)
	}
	if labels[2] == labels[0] {
		t.Errorf("Expected the stock market document apart, got %v", labels)
	}
}
