package classifier

import (
	"math/rand"
	"sort"
)

// node is a single decision-tree node. Leaves carry Feature == -1 and
// a majority class.
type node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      *node   `json:"l,omitempty"`
	Right     *node   `json:"r,omitempty"`
	Class     int     `json:"c"`
}

// forest is a bagged ensemble of CART trees with Gini splits. All
// randomness flows through a single seeded source, so growing a forest
// twice from the same data and seed yields identical trees.
type forest struct {
	Trees       []*node   `json:"trees"`
	NumClasses  int       `json:"num_classes"`
	NumFeatures int       `json:"num_features"`
	Importance  []float64 `json:"importance"`
}

const minSamplesSplit = 2

type grower struct {
	x          [][]float64
	y          []int
	numClasses int
	maxDepth   int
	rootSize   int
	importance []float64
}

func growForest(x [][]float64, y []int, numClasses, numFeatures, trees, maxDepth int, rng *rand.Rand) *forest {
	f := &forest{
		Trees:       make([]*node, 0, trees),
		NumClasses:  numClasses,
		NumFeatures: numFeatures,
		Importance:  make([]float64, numFeatures),
	}

	n := len(x)
	raw := make([]float64, numFeatures)
	for t := 0; t < trees; t++ {
		// Bootstrap sample with replacement.
		indices := make([]int, n)
		for i := range indices {
			indices[i] = rng.Intn(n)
		}
		g := &grower{
			x:          x,
			y:          y,
			numClasses: numClasses,
			maxDepth:   maxDepth,
			rootSize:   n,
			importance: make([]float64, numFeatures),
		}
		f.Trees = append(f.Trees, g.grow(indices, 0))
		for i := range raw {
			raw[i] += g.importance[i]
		}
	}

	// Mean decrease in impurity, normalized to sum to 1. A forest with
	// no informative splits (single-class data) gets a uniform split so
	// the sum-to-1 contract still holds.
	var total float64
	for _, v := range raw {
		total += v
	}
	if total > 0 {
		for i, v := range raw {
			f.Importance[i] = v / total
		}
	} else {
		for i := range f.Importance {
			f.Importance[i] = 1.0 / float64(numFeatures)
		}
	}

	return f
}

func (g *grower) grow(indices []int, depth int) *node {
	counts := make([]int, g.numClasses)
	for _, i := range indices {
		counts[g.y[i]]++
	}
	majority, pure := majorityClass(counts)

	if pure || depth >= g.maxDepth || len(indices) < minSamplesSplit {
		return &node{Feature: -1, Class: majority}
	}

	feature, threshold, decrease := g.bestSplit(indices, counts)
	if feature < 0 {
		return &node{Feature: -1, Class: majority}
	}

	var left, right []int
	for _, i := range indices {
		if g.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &node{Feature: -1, Class: majority}
	}

	// Impurity decrease weighted by the fraction of the tree's samples
	// reaching this node.
	g.importance[feature] += float64(len(indices)) / float64(g.rootSize) * decrease

	return &node{
		Feature:   feature,
		Threshold: threshold,
		Class:     majority,
		Left:      g.grow(left, depth+1),
		Right:     g.grow(right, depth+1),
	}
}

// bestSplit scans every feature for the threshold with the largest
// Gini impurity decrease. Ties keep the first candidate so tree shape
// is deterministic.
func (g *grower) bestSplit(indices []int, parentCounts []int) (feature int, threshold, decrease float64) {
	n := len(indices)
	parentGini := gini(parentCounts, n)
	feature = -1

	type sample struct {
		value float64
		class int
	}
	ordered := make([]sample, n)

	for f := 0; f < len(g.x[0]); f++ {
		for j, i := range indices {
			ordered[j] = sample{value: g.x[i][f], class: g.y[i]}
		}
		sort.Slice(ordered, func(a, b int) bool { return ordered[a].value < ordered[b].value })

		leftCounts := make([]int, g.numClasses)
		rightCounts := make([]int, g.numClasses)
		copy(rightCounts, parentCounts)

		for j := 0; j < n-1; j++ {
			leftCounts[ordered[j].class]++
			rightCounts[ordered[j].class]--

			if ordered[j].value == ordered[j+1].value {
				continue
			}

			nLeft := j + 1
			nRight := n - nLeft
			weighted := float64(nLeft)/float64(n)*gini(leftCounts, nLeft) +
				float64(nRight)/float64(n)*gini(rightCounts, nRight)
			d := parentGini - weighted
			if d > decrease {
				decrease = d
				feature = f
				threshold = (ordered[j].value + ordered[j+1].value) / 2
			}
		}
	}

	return feature, threshold, decrease
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

// majorityClass returns the most frequent class (lowest code wins
// ties) and whether the counts are pure.
func majorityClass(counts []int) (int, bool) {
	best, bestCount, nonZero := 0, 0, 0
	for class, c := range counts {
		if c > 0 {
			nonZero++
		}
		if c > bestCount {
			best, bestCount = class, c
		}
	}
	return best, nonZero <= 1
}

// probabilities returns the per-class vote fractions across all trees.
func (f *forest) probabilities(x []float64) []float64 {
	votes := make([]float64, f.NumClasses)
	for _, root := range f.Trees {
		votes[classify(root, x)]++
	}
	for i := range votes {
		votes[i] /= float64(len(f.Trees))
	}
	return votes
}

func classify(n *node, x []float64) int {
	for n.Feature >= 0 {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Class
}
