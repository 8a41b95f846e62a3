package shr3d

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestGroupObjectsSingleComponent(t *testing.T) {
	heights := makeHeights(t, 10, 10, 1, 1000)
	labels := makeLabels(t, 10, 10, 1)
	for j := 2; j <= 4; j++ {
		for i := 3; i <= 6; i++ {
			labels.Set(i, j, LabelObject)
		}
	}

	objects := GroupObjects(labels, heights, 20, math.MaxInt)
	test.That(t, objects, test.ShouldHaveLength, 1)
	obj := objects[0]
	test.That(t, obj.Label, test.ShouldEqual, 2)
	test.That(t, obj.Count, test.ShouldEqual, 12)
	test.That(t, obj.XMin, test.ShouldEqual, 3)
	test.That(t, obj.XMax, test.ShouldEqual, 6)
	test.That(t, obj.YMin, test.ShouldEqual, 2)
	test.That(t, obj.YMax, test.ShouldEqual, 4)
	test.That(t, countValue(labels, obj.Label), test.ShouldEqual, 12)
	test.That(t, countValue(labels, LabelObject), test.ShouldEqual, 0)
}

func TestGroupObjectsHeightGate(t *testing.T) {
	// Two abutting candidates more than dzGroup apart in height stay in
	// separate components.
	heights := makeHeights(t, 4, 1, 1, 1000)
	heights.Set(1, 0, 1100)
	labels := makeLabels(t, 4, 1, 1)
	labels.Set(0, 0, LabelObject)
	labels.Set(1, 0, LabelObject)

	objects := GroupObjects(labels, heights, 20, math.MaxInt)
	test.That(t, objects, test.ShouldHaveLength, 2)
	test.That(t, objects[0].Count, test.ShouldEqual, 1)
	test.That(t, objects[1].Count, test.ShouldEqual, 1)
	test.That(t, labels.At(0, 0), test.ShouldNotEqual, labels.At(1, 0))
}

func TestGroupObjectsLeavesGroundAlone(t *testing.T) {
	heights := makeHeights(t, 5, 5, 1, 1000)
	labels := makeLabels(t, 5, 5, 1)
	labels.Set(2, 2, LabelObject)

	GroupObjects(labels, heights, math.MaxUint32, math.MaxInt)
	test.That(t, countValue(labels, LabelGround), test.ShouldEqual, 24)
}

func TestGroupObjectsPartition(t *testing.T) {
	// The soft cap truncates growth after a wave; the remainder is
	// rediscovered by the outer scan as sibling components. Together the
	// components partition the candidate set exactly.
	heights := makeHeights(t, 10, 10, 1, 1000)
	labels := makeLabels(t, 10, 10, 1)
	candidates := 0
	for j := 1; j <= 2; j++ {
		for i := 1; i <= 4; i++ {
			labels.Set(i, j, LabelObject)
			candidates++
		}
	}
	for j := 6; j <= 8; j++ {
		for i := 5; i <= 7; i++ {
			labels.Set(i, j, LabelObject)
			candidates++
		}
	}

	objects := GroupObjects(labels, heights, 20, 5)

	// Truncation split at least one blob.
	test.That(t, len(objects), test.ShouldBeGreaterThan, 2)

	total := 0
	for _, obj := range objects {
		n := countValue(labels, obj.Label)
		test.That(t, n, test.ShouldEqual, obj.Count)
		total += n
	}
	test.That(t, total, test.ShouldEqual, candidates)
	test.That(t, countValue(labels, LabelObject), test.ShouldEqual, 0)
}

func TestFinishLabelImageIdempotent(t *testing.T) {
	labels := makeLabels(t, 4, 4, 1)
	labels.Set(0, 0, 5)
	labels.Set(1, 0, LabelObject)
	labels.Set(2, 2, 7700)

	finishLabelImage(labels)
	test.That(t, labels.At(0, 0), test.ShouldEqual, LabelObject)
	test.That(t, labels.At(1, 0), test.ShouldEqual, LabelObject)
	test.That(t, labels.At(2, 2), test.ShouldEqual, LabelObject)
	test.That(t, labels.At(3, 3), test.ShouldEqual, LabelGround)

	before := labels.Clone()
	finishLabelImage(labels)
	for j := 0; j < labels.Height(); j++ {
		for i := 0; i < labels.Width(); i++ {
			test.That(t, labels.At(i, j), test.ShouldEqual, before.At(i, j))
		}
	}
}
