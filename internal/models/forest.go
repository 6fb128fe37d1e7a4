package models

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type ForestConfig struct {
	NumTrees            int
	MaxDepth            int
	MaxBins             int
	MinInstancesPerNode int
	// FeatureSubset is one of "sqrt", "log2", "onethird" or "all".
	FeatureSubset string
	Seed          int64
	Workers       int
}

// DefaultForestConfig is 100 trees of depth 5 with sqrt feature sampling.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:            100,
		MaxDepth:            5,
		MaxBins:             32,
		MinInstancesPerNode: 1,
		FeatureSubset:       "sqrt",
		Seed:                42,
		Workers:             runtime.NumCPU(),
	}
}

// RandomForest trains each tree on a bootstrap resample with per-split
// feature sampling, and predicts the class with the highest mean leaf
// probability across trees. Tree i is seeded with Seed+i, so results do not
// depend on Workers.
type RandomForest struct {
	BaseModel
	Config      ForestConfig
	NumClasses  int
	NumFeatures int
	Trees       []*DecisionTree
}

func NewRandomForest(config ForestConfig) *RandomForest {
	if config.NumTrees <= 0 {
		config.NumTrees = 100
	}
	if config.MaxBins < 2 {
		config.MaxBins = 32
	}
	if config.MinInstancesPerNode < 1 {
		config.MinInstancesPerNode = 1
	}
	if config.FeatureSubset == "" {
		config.FeatureSubset = "sqrt"
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}

	return &RandomForest{
		Config:    config,
		BaseModel: BaseModel{Name: "RandomForest"},
	}
}

func (rf *RandomForest) GetParams() map[string]any {
	return map[string]any{
		"num_trees":              rf.Config.NumTrees,
		"max_depth":              rf.Config.MaxDepth,
		"max_bins":               rf.Config.MaxBins,
		"min_instances_per_node": rf.Config.MinInstancesPerNode,
		"feature_subset":         rf.Config.FeatureSubset,
		"seed":                   rf.Config.Seed,
	}
}

func (rf *RandomForest) Fit(ctx context.Context, X [][]float64, y []int, numClasses int) error {
	if err := checkTrainingSet(X, y, numClasses); err != nil {
		return err
	}

	maxFeatures, err := featuresPerSplit(rf.Config.FeatureSubset, len(X[0]))
	if err != nil {
		return err
	}

	trees := make([]*DecisionTree, rf.Config.NumTrees)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rf.Config.Workers)
	for i := range trees {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trees[i] = rf.trainSingleTree(X, y, numClasses, maxFeatures, rf.Config.Seed+int64(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "forest training interrupted")
	}

	rf.Trees = trees
	rf.NumClasses = numClasses
	rf.NumFeatures = len(X[0])
	return nil
}

func (rf *RandomForest) trainSingleTree(X [][]float64, y []int, numClasses, maxFeatures int, seed int64) *DecisionTree {
	r := rand.New(rand.NewSource(seed))

	n := len(X)
	rows := make([]int, n)
	for i := range rows {
		rows[i] = r.Intn(n)
	}

	tree := NewDecisionTree(TreeConfig{
		MaxDepth:            rf.Config.MaxDepth,
		MaxBins:             rf.Config.MaxBins,
		MinInstancesPerNode: rf.Config.MinInstancesPerNode,
		MaxFeatures:         maxFeatures,
		Seed:                seed,
	})
	tree.fit(X, y, rows, numClasses, r)
	return tree
}

// featuresPerSplit resolves a subset strategy to a feature count.
func featuresPerSplit(strategy string, nFeatures int) (int, error) {
	var k int
	switch strategy {
	case "all":
		k = nFeatures
	case "sqrt":
		k = int(math.Ceil(math.Sqrt(float64(nFeatures))))
	case "log2":
		k = int(math.Ceil(math.Log2(float64(nFeatures))))
	case "onethird":
		k = int(math.Ceil(float64(nFeatures) / 3))
	default:
		return 0, errors.Errorf("unknown feature subset strategy: %s", strategy)
	}

	if k < 1 {
		k = 1
	}
	if k > nFeatures {
		k = nFeatures
	}
	return k, nil
}

func (rf *RandomForest) Predict(X [][]float64) []int {
	proba := rf.PredictProba(X)
	predictions := make([]int, len(proba))
	for i, p := range proba {
		predictions[i] = argmax(p)
	}
	return predictions
}

func (rf *RandomForest) PredictProba(X [][]float64) [][]float64 {
	proba := make([][]float64, len(X))
	if len(rf.Trees) == 0 {
		return proba
	}

	for i, sample := range X {
		sum := make([]float64, rf.NumClasses)
		for _, tree := range rf.Trees {
			dist := normalize(tree.leaf(sample).Stats)
			for c, p := range dist {
				sum[c] += p
			}
		}

		nTrees := float64(len(rf.Trees))
		for c := range sum {
			sum[c] /= nTrees
		}
		proba[i] = sum
	}

	return proba
}
