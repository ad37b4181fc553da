package gesture

import (
	"math/rand/v2"
	"testing"
	"time"
)

func TestBegin(t *testing.T) {
	g := Begin(Point{3, -4})
	if g.Len() != 1 {
		t.Fatalf("Len = %d, want 1", g.Len())
	}
	if p := g.Points()[0]; p != (Point{3, -4}) {
		t.Errorf("first point = %v, want {3 -4}", p)
	}
	want := Bounds{MinX: 3, MinY: -4, MaxX: 3, MaxY: -4}
	if g.Bounds() != want {
		t.Errorf("Bounds = %+v, want %+v", g.Bounds(), want)
	}
}

// Scenario D from the sampler contract.
func TestMaybeSample_Throttle(t *testing.T) {
	g := Begin(Point{0, 0})

	if !g.MaybeSample(0, Point{10, 5}) {
		t.Fatal("first sample rejected")
	}
	if want := (Bounds{0, 0, 10, 5}); g.Bounds() != want {
		t.Fatalf("Bounds = %+v, want %+v", g.Bounds(), want)
	}

	if g.MaybeSample(10*time.Millisecond, Point{-3, 5}) {
		t.Fatal("sample 10ms after the previous one was accepted")
	}
	if want := (Bounds{0, 0, 10, 5}); g.Bounds() != want {
		t.Fatalf("rejected sample changed Bounds to %+v", g.Bounds())
	}

	if !g.MaybeSample(40*time.Millisecond, Point{-3, 5}) {
		t.Fatal("sample 40ms after the previous one was rejected")
	}
	if want := (Bounds{-3, 0, 10, 5}); g.Bounds() != want {
		t.Fatalf("Bounds = %+v, want %+v", g.Bounds(), want)
	}
	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
}

func TestMaybeSample_ExactBoundaryAccepted(t *testing.T) {
	g := Begin(Point{})
	now := time.Second
	for i := 0; i < 10; i++ {
		if !g.MaybeSample(now, Point{float64(i), 0}) {
			t.Fatalf("sample %d at exact interval rejected", i)
		}
		now += SampleInterval
	}
	if g.Len() != 11 {
		t.Errorf("Len = %d, want 11", g.Len())
	}
}

func TestMaybeSample_FastCallsOnePerWindow(t *testing.T) {
	g := Begin(Point{})
	accepted := 0
	// 1ms ticks across 1s: at most one sample per 33.3ms window.
	for ms := 0; ms < 1000; ms++ {
		if g.MaybeSample(time.Duration(ms)*time.Millisecond, Point{float64(ms), 0}) {
			accepted++
		}
	}
	if accepted > 31 || accepted < 29 {
		t.Errorf("accepted %d samples in 1s, want ~30", accepted)
	}

	pts := g.Points()[1:]
	for i := 1; i < len(pts); i++ {
		gap := time.Duration(pts[i].X-pts[i-1].X) * time.Millisecond
		if gap < SampleInterval {
			t.Errorf("samples %d and %d only %v apart", i-1, i, gap)
		}
	}
}

func TestThrottleIsPerGesture(t *testing.T) {
	a := Begin(Point{})
	a.MaybeSample(time.Second, Point{1, 1})

	b := Begin(Point{})
	if !b.MaybeSample(time.Second+time.Millisecond, Point{2, 2}) {
		t.Error("a new gesture inherited the previous gesture's throttle clock")
	}
}

func TestBounds_MatchesFold(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		start := Point{rng.NormFloat64() * 100, rng.NormFloat64() * 100}
		g := Begin(start)
		accepted := []Point{start}
		now := time.Duration(0)
		n := rng.IntN(60)
		for i := 0; i < n; i++ {
			now += time.Duration(rng.IntN(60)) * time.Millisecond
			p := Point{rng.NormFloat64() * 500, rng.NormFloat64() * 500}
			if g.MaybeSample(now, p) {
				accepted = append(accepted, p)
			}
		}
		want, ok := Fold(accepted)
		if !ok {
			t.Fatal("Fold reported empty input")
		}
		if g.Bounds() != want {
			t.Fatalf("trial %d: Bounds = %+v, fold = %+v", trial, g.Bounds(), want)
		}
		got := g.Points()
		if len(got) != len(accepted) {
			t.Fatalf("trial %d: %d points, want %d", trial, len(got), len(accepted))
		}
		for i := range got {
			if got[i] != accepted[i] {
				t.Fatalf("trial %d: point %d = %v, want %v", trial, i, got[i], accepted[i])
			}
		}
	}
}

func TestEnd(t *testing.T) {
	g := Begin(Point{1, 2})
	g.MaybeSample(0, Point{5, -2})
	b := g.End()
	if want := (Bounds{1, -2, 5, 2}); b != want {
		t.Errorf("End() = %+v, want %+v", b, want)
	}
	if !g.Ended() {
		t.Error("Ended() = false after End")
	}
	if g.Len() != 0 {
		t.Errorf("Len = %d after End, want 0", g.Len())
	}
	if g.MaybeSample(time.Hour, Point{100, 100}) {
		t.Error("MaybeSample accepted a point after End")
	}
	if again := g.End(); again != b {
		t.Errorf("second End() = %+v, want %+v", again, b)
	}
}

func TestEnd_Degenerate(t *testing.T) {
	b := Begin(Point{7, 8}).End()
	if b.Width() != 0 || b.Height() != 0 {
		t.Errorf("single point box = %vx%v, want 0x0", b.Width(), b.Height())
	}
	if !b.Empty() {
		t.Error("Empty() = false for a single point box")
	}
	if c := b.Center(); c != (Point{7, 8}) {
		t.Errorf("Center = %v, want {7 8}", c)
	}
}

func TestBoundsGeometry(t *testing.T) {
	b := Bounds{MinX: -3, MinY: 0, MaxX: 10, MaxY: 5}
	if b.Width() != 13 || b.Height() != 5 {
		t.Errorf("size = %vx%v, want 13x5", b.Width(), b.Height())
	}
	if c := b.Center(); c != (Point{3.5, 2.5}) {
		t.Errorf("Center = %v, want {3.5 2.5}", c)
	}
	if b.Empty() {
		t.Error("Empty() = true for 13x5 box")
	}
}

func TestExtendIsPure(t *testing.T) {
	b := BoundsOf(Point{0, 0})
	c := b.Extend(Point{4, -4})
	if b != (Bounds{}) {
		t.Errorf("Extend mutated receiver: %+v", b)
	}
	if c != (Bounds{MinX: 0, MinY: -4, MaxX: 4, MaxY: 0}) {
		t.Errorf("Extend = %+v", c)
	}
}

func TestFoldEmpty(t *testing.T) {
	if _, ok := Fold(nil); ok {
		t.Error("Fold(nil) reported ok")
	}
}

func TestPointsIsCopy(t *testing.T) {
	g := Begin(Point{1, 1})
	pts := g.Points()
	pts[0] = Point{99, 99}
	if g.Points()[0] != (Point{1, 1}) {
		t.Error("Points() exposed internal storage")
	}
}
