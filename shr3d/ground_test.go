package shr3d

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func testConfig() Config {
	return Config{
		EdgeResolution:   3,
		MinHeightDiff:    20,
		MinAGL:           20,
		MinAreaMeters:    4,
		MaxAreaMeters:    10000,
		GroundIterations: 2,
	}
}

func TestClassifyGroundFlat(t *testing.T) {
	// Flat ground with no objects comes back untouched.
	dsm := makeHeights(t, 10, 10, 1, 1000)
	s, err := NewShr3dder(testConfig(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	dtm, labels, err := s.ClassifyGround(dsm)
	test.That(t, err, test.ShouldBeNil)

	for j := 0; j < 10; j++ {
		for i := 0; i < 10; i++ {
			test.That(t, dtm.At(i, j), test.ShouldEqual, 1000)
			test.That(t, labels.At(i, j), test.ShouldEqual, LabelGround)
		}
	}
}

func TestClassifyGroundSquareBuilding(t *testing.T) {
	// A 6x6 block 6m above flat terrain is carved out and the terrain
	// restored underneath it.
	dsm := makeHeights(t, 20, 20, 1, 1000)
	setBlock(dsm, 7, 7, 12, 12, 1060)
	s, err := NewShr3dder(testConfig(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	dtm, labels, err := s.ClassifyGround(dsm)
	test.That(t, err, test.ShouldBeNil)

	for j := 0; j < 20; j++ {
		for i := 0; i < 20; i++ {
			test.That(t, dtm.At(i, j), test.ShouldBeBetweenOrEqual, 999, 1001)
			onBlock := i >= 7 && i <= 12 && j >= 7 && j <= 12
			if onBlock {
				test.That(t, labels.At(i, j), test.ShouldEqual, LabelObject)
			} else {
				test.That(t, labels.At(i, j), test.ShouldEqual, LabelGround)
			}
		}
	}
}

func TestClassifyGroundSpike(t *testing.T) {
	// A single-pixel spike is flagged as void and refilled to terrain level.
	dsm := makeHeights(t, 12, 12, 1, 1000)
	dsm.Set(6, 6, 1500)
	s, err := NewShr3dder(testConfig(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	dtm, labels, err := s.ClassifyGround(dsm)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, dtm.At(6, 6), test.ShouldBeBetweenOrEqual, 999, 1001)
	test.That(t, labels.At(6, 6), test.ShouldEqual, LabelObject)
}

func TestClassifyGroundInvariants(t *testing.T) {
	// Terrain never sits above the surface, and the output label raster is
	// strictly two-valued.
	dsm := makeHeights(t, 16, 16, 1, 1000)
	setBlock(dsm, 5, 5, 9, 9, 1060)
	for j := 0; j < 16; j++ {
		for i := 0; i < 16; i++ {
			dsm.Set(i, j, dsm.At(i, j)+uint16((i*13+j*7)%4))
		}
	}
	s, err := NewShr3dder(testConfig(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	dtm, labels, err := s.ClassifyGround(dsm)
	test.That(t, err, test.ShouldBeNil)

	for j := 0; j < 16; j++ {
		for i := 0; i < 16; i++ {
			test.That(t, dtm.At(i, j), test.ShouldBeLessThanOrEqualTo, dsm.At(i, j))
			ok := labels.At(i, j) == LabelGround || labels.At(i, j) == LabelObject
			test.That(t, ok, test.ShouldBeTrue)
		}
	}
}

func TestNewShr3dderRejectsBadConfig(t *testing.T) {
	conf := testConfig()
	conf.GroundIterations = 0
	conf.MinHeightDiff = 0
	_, err := NewShr3dder(conf, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "ground iteration")
	test.That(t, err.Error(), test.ShouldContainSubstring, "height difference")
}
