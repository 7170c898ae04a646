// Package metrics provides scores for multi-class classification.
package metrics

import (
	"fmt"
	"sort"
)

func checkLens(yTrue, yPred []int) {
	if len(yTrue) != len(yPred) {
		panic(fmt.Sprintf("lengths differ: %d true labels, %d predictions", len(yTrue), len(yPred)))
	}
}

// Labels returns the distinct labels in either slice, in increasing order.
func Labels(yTrue, yPred []int) []int {
	seen := make(map[int]bool)
	var labels []int
	for _, ys := range [][]int{yTrue, yPred} {
		for _, y := range ys {
			if !seen[y] {
				seen[y] = true
				labels = append(labels, y)
			}
		}
	}
	sort.Ints(labels)
	return labels
}

// ClassScore contains the per-class counts and scores.
// Precision, recall and F1 are zero when undefined.
type ClassScore struct {
	Label     int
	TruePos   int
	FalsePos  int
	FalseNeg  int
	Precision float64
	Recall    float64
	F1        float64
}

// PerClass computes the scores of every label in Labels(yTrue, yPred).
func PerClass(yTrue, yPred []int) []ClassScore {
	checkLens(yTrue, yPred)
	labels := Labels(yTrue, yPred)
	index := make(map[int]int, len(labels))
	scores := make([]ClassScore, len(labels))
	for i, y := range labels {
		index[y] = i
		scores[i].Label = y
	}
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			scores[index[yTrue[i]]].TruePos++
			continue
		}
		scores[index[yPred[i]]].FalsePos++
		scores[index[yTrue[i]]].FalseNeg++
	}
	for i := range scores {
		s := &scores[i]
		s.Precision = ratio(s.TruePos, s.TruePos+s.FalsePos)
		s.Recall = ratio(s.TruePos, s.TruePos+s.FalseNeg)
		s.F1 = ratio(2*s.TruePos, 2*s.TruePos+s.FalsePos+s.FalseNeg)
	}
	return scores
}

// F1Macro is the unweighted mean of the per-class F1 scores.
// It is zero if there are no examples.
func F1Macro(yTrue, yPred []int) float64 {
	scores := PerClass(yTrue, yPred)
	if len(scores) == 0 {
		return 0
	}
	var total float64
	for _, s := range scores {
		total += s.F1
	}
	return total / float64(len(scores))
}

// RecallMacro is the unweighted mean of the per-class recalls.
func RecallMacro(yTrue, yPred []int) float64 {
	scores := PerClass(yTrue, yPred)
	if len(scores) == 0 {
		return 0
	}
	var total float64
	for _, s := range scores {
		total += s.Recall
	}
	return total / float64(len(scores))
}

// Accuracy is the fraction of correct predictions.
func Accuracy(yTrue, yPred []int) float64 {
	checkLens(yTrue, yPred)
	var n int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			n++
		}
	}
	return ratio(n, len(yTrue))
}

// Confusion returns the k x k matrix whose element (i, j)
// counts examples of class i predicted as class j.
// Labels must be in [0, k).
func Confusion(yTrue, yPred []int, k int) [][]int {
	checkLens(yTrue, yPred)
	m := make([][]int, k)
	for i := range m {
		m[i] = make([]int, k)
	}
	for i := range yTrue {
		m[yTrue[i]][yPred[i]]++
	}
	return m
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
