package spellwalk

import (
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/spellwalk/gesture"
)

func TestFormatCast(t *testing.T) {
	got := formatCast(Cast{
		Bounds: gesture.Bounds{MinX: -3, MinY: 0, MaxX: 10, MaxY: 5},
		Points: 3,
		At:     80 * time.Millisecond,
	})
	for _, want := range []string{"box (-3,0)-(10,5)", "centre (3.5,2.5)", "size 13x5", "3 points", "80ms"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatCast = %q, missing %q", got, want)
		}
	}
}
