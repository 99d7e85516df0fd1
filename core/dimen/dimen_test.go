package dimen

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "textflow.core")
	defer teardown()
	//
	for input, px := range map[string]float64{
		"20px":  20,
		"12.5":  12.5,
		"1in":   72,
		"10 pt": 10 * float64(PT) / float64(PX),
	} {
		l, pcnt, err := ParseLength(input)
		if err != nil {
			t.Errorf("cannot parse %q: %v", input, err)
			continue
		}
		if pcnt {
			t.Errorf("%q is not a percentage", input)
		}
		if math.Abs(l-px) > 1e-6 {
			t.Errorf("expected %q to be %.4fpx, is %.4f", input, px, l)
		}
	}
	if _, _, err := ParseLength("wide"); err == nil {
		t.Errorf("expected 'wide' to be rejected as a length")
	}
	if l, pcnt, err := ParseLength("80%"); err != nil || !pcnt || l != 80 {
		t.Errorf("expected 80%% to be a percentage of 80, is %v/%v/%v", l, pcnt, err)
	}
	if (12 * BP).String() != "786432sp" {
		t.Errorf("expected 12bp to print as scaled points, is %s", 12*BP)
	}
}
