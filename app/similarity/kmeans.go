package similarity

import (
	"math"
	"math/rand/v2"
	"slices"
)

// Clusterer partitions vectors into at most k groups and returns the
// group label of every vector, in input order.
type Clusterer interface {
	Cluster(vectors [][]float64, k int) []int
}

const (
	DefaultSeed          uint64 = 0x706f64
	DefaultRestarts             = 10
	DefaultMaxIterations        = 300
)

// KMeans is Lloyd's algorithm with greedy k-means++ seeding. Each call
// runs several seeded restarts and keeps the partition with the lowest
// within-cluster sum of squared distances, so equal inputs always give
// equal labels.
type KMeans struct {
	Seed          uint64
	Restarts      int
	MaxIterations int
}

func NewKMeans() *KMeans {
	return &KMeans{
		Seed:          DefaultSeed,
		Restarts:      DefaultRestarts,
		MaxIterations: DefaultMaxIterations,
	}
}

func (km *KMeans) Cluster(vectors [][]float64, k int) []int {
	n := len(vectors)
	if n == 0 {
		return []int{}
	}
	k = max(1, min(k, n))

	rng := rand.New(rand.NewPCG(km.Seed, uint64(n)))
	restarts := max(1, km.Restarts)

	var best []int
	bestInertia := math.Inf(1)
	for run := 0; run < restarts; run++ {
		centers := seedCenters(vectors, k, rng)
		labels, inertia := km.lloyd(vectors, centers)
		if inertia < bestInertia {
			best, bestInertia = labels, inertia
		}
	}

	return best
}

// seedCenters picks up to k initial centers with greedy k-means++: every
// new center is the best of a few candidates sampled proportionally to
// their squared distance from the centers chosen so far. Fewer than k
// centers are returned when the vectors have fewer distinct values.
func seedCenters(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	trials := 2 + int(math.Log(float64(k)))

	first := vectors[rng.IntN(n)]
	centers := [][]float64{slices.Clone(first)}

	closest := make([]float64, n)
	var potential float64
	for i, v := range vectors {
		closest[i] = squaredDistance(v, first)
		potential += closest[i]
	}

	for len(centers) < k && potential > 0 {
		bestCandidate := -1
		bestPotential := math.Inf(1)

		for trial := 0; trial < trials; trial++ {
			candidate := sampleIndex(closest, potential, rng)
			var p float64
			for i, v := range vectors {
				p += min(closest[i], squaredDistance(v, vectors[candidate]))
			}
			if p < bestPotential {
				bestCandidate, bestPotential = candidate, p
			}
		}

		chosen := vectors[bestCandidate]
		centers = append(centers, slices.Clone(chosen))
		potential = 0
		for i, v := range vectors {
			closest[i] = min(closest[i], squaredDistance(v, chosen))
			potential += closest[i]
		}
	}

	return centers
}

// sampleIndex draws an index with probability weights[i]/total
func sampleIndex(weights []float64, total float64, rng *rand.Rand) int {
	target := rng.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		target -= w
		if target < 0 {
			return i
		}
	}
	return last
}

func (km *KMeans) lloyd(vectors [][]float64, centers [][]float64) ([]int, float64) {
	labels := make([]int, len(vectors))
	for i := range labels {
		labels[i] = -1
	}

	maxIterations := max(1, km.MaxIterations)
	for iteration := 0; iteration < maxIterations; iteration++ {
		changed := 0
		for i, v := range vectors {
			nearest := nearestCenter(v, centers)
			if labels[i] != nearest {
				labels[i] = nearest
				changed++
			}
		}
		if changed == 0 {
			break
		}
		recenter(vectors, labels, centers)
	}

	var inertia float64
	for i, v := range vectors {
		inertia += squaredDistance(v, centers[labels[i]])
	}
	return labels, inertia
}

// nearestCenter returns the index of the closest center; ties go to the lower index
func nearestCenter(v []float64, centers [][]float64) int {
	nearest := 0
	nearestDistance := math.Inf(1)
	for c, center := range centers {
		if d := squaredDistance(v, center); d < nearestDistance {
			nearest, nearestDistance = c, d
		}
	}
	return nearest
}

// recenter moves every center to the mean of its members. A center left
// without members stays where it is.
func recenter(vectors [][]float64, labels []int, centers [][]float64) {
	sizes := make([]int, len(centers))
	sums := make([][]float64, len(centers))
	for c := range centers {
		sums[c] = make([]float64, len(centers[c]))
	}

	for i, v := range vectors {
		c := labels[i]
		sizes[c]++
		for d, x := range v {
			sums[c][d] += x
		}
	}

	for c := range centers {
		if sizes[c] == 0 {
			continue
		}
		for d := range centers[c] {
			centers[c][d] = sums[c][d] / float64(sizes[c])
		}
	}
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
