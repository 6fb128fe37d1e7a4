package models

import (
	"context"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

type TreeNode struct {
	IsLeaf     bool
	Feature    int
	Threshold  float64
	Left       *TreeNode
	Right      *TreeNode
	Samples    int
	Impurity   float64
	Gain       float64
	Stats      []float64
	Prediction int
}

type TreeConfig struct {
	MaxDepth            int
	MaxBins             int
	MinInstancesPerNode int
	// MaxFeatures is the number of features considered at each split.
	// Zero means all of them.
	MaxFeatures int
	Seed        int64
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		MaxDepth:            5,
		MaxBins:             32,
		MinInstancesPerNode: 1,
	}
}

// DecisionTree is a CART classifier split on gini impurity. Rows with
// x[Feature] <= Threshold go left.
type DecisionTree struct {
	BaseModel
	Config     TreeConfig
	NumClasses int
	Root       *TreeNode
}

func NewDecisionTree(config TreeConfig) *DecisionTree {
	if config.MaxDepth < 0 {
		config.MaxDepth = 0
	}
	if config.MaxBins < 2 {
		config.MaxBins = 32
	}
	if config.MinInstancesPerNode < 1 {
		config.MinInstancesPerNode = 1
	}

	return &DecisionTree{
		Config:    config,
		BaseModel: BaseModel{Name: "DecisionTree"},
	}
}

func (dt *DecisionTree) GetParams() map[string]any {
	return map[string]any{
		"max_depth":              dt.Config.MaxDepth,
		"max_bins":               dt.Config.MaxBins,
		"min_instances_per_node": dt.Config.MinInstancesPerNode,
		"max_features":           dt.Config.MaxFeatures,
	}
}

func (dt *DecisionTree) Fit(ctx context.Context, X [][]float64, y []int, numClasses int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkTrainingSet(X, y, numClasses); err != nil {
		return err
	}

	rows := make([]int, len(X))
	for i := range rows {
		rows[i] = i
	}

	r := rand.New(rand.NewSource(dt.Config.Seed))
	dt.fit(X, y, rows, numClasses, r)
	return nil
}

// fit grows the tree on the given row indices, which may repeat.
func (dt *DecisionTree) fit(X [][]float64, y []int, rows []int, numClasses int, r *rand.Rand) {
	dt.NumClasses = numClasses
	dt.Root = dt.buildTree(X, y, rows, 0, r)
}

func (dt *DecisionTree) buildTree(X [][]float64, y []int, rows []int, depth int, r *rand.Rand) *TreeNode {
	stats := classCounts(y, rows, dt.NumClasses)
	node := &TreeNode{
		Samples:    len(rows),
		Stats:      stats,
		Impurity:   gini(stats, float64(len(rows))),
		Prediction: argmax(stats),
	}

	if depth >= dt.Config.MaxDepth ||
		len(rows) < 2*dt.Config.MinInstancesPerNode ||
		node.Impurity == 0 {
		node.IsLeaf = true
		return node
	}

	split, ok := dt.findBestSplit(X, y, rows, node.Impurity, r)
	if !ok || split.gain <= 0 {
		node.IsLeaf = true
		return node
	}

	var left, right []int
	for _, row := range rows {
		if X[row][split.feature] <= split.threshold {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	node.Feature = split.feature
	node.Threshold = split.threshold
	node.Gain = split.gain
	node.Left = dt.buildTree(X, y, left, depth+1, r)
	node.Right = dt.buildTree(X, y, right, depth+1, r)

	return node
}

type candidateSplit struct {
	feature   int
	threshold float64
	gain      float64
}

type valueLabel struct {
	value float64
	label int
}

func (dt *DecisionTree) findBestSplit(X [][]float64, y []int, rows []int, parentImpurity float64, r *rand.Rand) (candidateSplit, bool) {
	best := candidateSplit{}
	found := false

	n := float64(len(rows))
	total := classCounts(y, rows, dt.NumClasses)
	pairs := make([]valueLabel, len(rows))
	left := make([]float64, dt.NumClasses)
	right := make([]float64, dt.NumClasses)

	for _, feature := range dt.selectFeatures(len(X[0]), r) {
		for i, row := range rows {
			pairs[i] = valueLabel{value: X[row][feature], label: y[row]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].value < pairs[b].value })

		allowed := candidateBoundaries(countUnique(pairs), dt.Config.MaxBins)
		if allowed == nil {
			continue
		}

		for c := range left {
			left[c] = 0
		}
		copy(right, total)

		boundary := 0
		for i := 0; i < len(pairs)-1; i++ {
			left[pairs[i].label]++
			right[pairs[i].label]--
			if pairs[i].value == pairs[i+1].value {
				continue
			}
			boundary++
			if !allowed[boundary] {
				continue
			}

			nLeft := float64(i + 1)
			nRight := n - nLeft
			if int(nLeft) < dt.Config.MinInstancesPerNode || int(nRight) < dt.Config.MinInstancesPerNode {
				continue
			}

			weighted := (nLeft/n)*gini(left, nLeft) + (nRight/n)*gini(right, nRight)
			gain := parentImpurity - weighted
			if !found || gain > best.gain {
				best = candidateSplit{
					feature:   feature,
					threshold: midpoint(pairs[i].value, pairs[i+1].value),
					gain:      gain,
				}
				found = true
			}
		}
	}

	return best, found
}

// selectFeatures draws MaxFeatures distinct features without replacement.
func (dt *DecisionTree) selectFeatures(nFeatures int, r *rand.Rand) []int {
	features := make([]int, nFeatures)
	for i := range features {
		features[i] = i
	}

	k := dt.Config.MaxFeatures
	if k <= 0 || k >= nFeatures {
		return features
	}

	for i := 0; i < k; i++ {
		j := i + r.Intn(nFeatures-i)
		features[i], features[j] = features[j], features[i]
	}
	return features[:k]
}

func (dt *DecisionTree) Predict(X [][]float64) []int {
	predictions := make([]int, len(X))
	for i, sample := range X {
		predictions[i] = dt.leaf(sample).Prediction
	}
	return predictions
}

func (dt *DecisionTree) PredictProba(X [][]float64) [][]float64 {
	proba := make([][]float64, len(X))
	for i, sample := range X {
		proba[i] = normalize(dt.leaf(sample).Stats)
	}
	return proba
}

func (dt *DecisionTree) leaf(sample []float64) *TreeNode {
	node := dt.Root
	for !node.IsLeaf {
		if sample[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

// Depth returns the number of split levels below the root.
func (dt *DecisionTree) Depth() int {
	return nodeDepth(dt.Root)
}

func nodeDepth(node *TreeNode) int {
	if node == nil || node.IsLeaf {
		return 0
	}
	l, r := nodeDepth(node.Left), nodeDepth(node.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func checkTrainingSet(X [][]float64, y []int, numClasses int) error {
	if len(X) == 0 {
		return errors.New("training set is empty")
	}
	if len(X) != len(y) {
		return errors.Errorf("feature matrix and labels have different lengths: %d vs %d", len(X), len(y))
	}
	if numClasses < 1 {
		return errors.Errorf("invalid number of classes: %d", numClasses)
	}

	nFeatures := len(X[0])
	if nFeatures == 0 {
		return errors.New("features cannot be empty")
	}
	for i, sample := range X {
		if len(sample) != nFeatures {
			return errors.Errorf("inconsistent feature count at sample %d: expected %d, got %d", i, nFeatures, len(sample))
		}
		if y[i] < 0 || y[i] >= numClasses {
			return errors.Errorf("label %d at sample %d outside [0, %d)", y[i], i, numClasses)
		}
	}
	return nil
}

func classCounts(y []int, rows []int, numClasses int) []float64 {
	counts := make([]float64, numClasses)
	for _, row := range rows {
		counts[y[row]]++
	}
	return counts
}

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}

	impurity := 1.0
	for _, c := range counts {
		p := c / n
		impurity -= p * p
	}
	if impurity < 0 {
		return 0
	}
	return impurity
}

func countUnique(sorted []valueLabel) int {
	if len(sorted) == 0 {
		return 0
	}
	unique := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].value != sorted[i-1].value {
			unique++
		}
	}
	return unique
}

// candidateBoundaries marks which gaps between consecutive distinct values
// may be split on. Gap j lies between the (j-1)th and jth distinct value.
// When there are more gaps than maxBins-1 they are thinned to quantiles.
func candidateBoundaries(unique, maxBins int) []bool {
	if unique < 2 {
		return nil
	}

	allowed := make([]bool, unique)
	if unique <= maxBins {
		for j := 1; j < unique; j++ {
			allowed[j] = true
		}
		return allowed
	}

	for k := 1; k < maxBins; k++ {
		j := k * unique / maxBins
		if j < 1 {
			j = 1
		}
		if j > unique-1 {
			j = unique - 1
		}
		allowed[j] = true
	}
	return allowed
}

func midpoint(lo, hi float64) float64 {
	mid := lo + (hi-lo)/2
	if mid >= hi {
		return lo
	}
	return mid
}
