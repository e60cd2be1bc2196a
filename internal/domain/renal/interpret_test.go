package renal

import (
	"strings"
	"testing"
)

func codes(obs []Observation) []ObservationCode {
	out := make([]ObservationCode, len(obs))
	for i, o := range obs {
		out[i] = o.Code
	}
	return out
}

func hasCode(obs []Observation, code ObservationCode) bool {
	for _, o := range obs {
		if o.Code == code {
			return true
		}
	}
	return false
}

// ── Dosing bands ──

func TestBandFor(t *testing.T) {
	cases := []struct {
		egfr float64
		want DosingBand
	}{
		{120, BandStandard},
		{60, BandStandard},
		{59.9, BandModerate},
		{30, BandModerate},
		{29.9, BandSevere},
		{15, BandSevere},
		{14.9, BandFailure},
		{0, BandFailure},
	}
	for _, tc := range cases {
		if got := BandFor(tc.egfr); got != tc.want {
			t.Errorf("BandFor(%v): want %q, got %q", tc.egfr, tc.want, got)
		}
	}
}

func TestDosingBands(t *testing.T) {
	bands := DosingBands()
	if len(bands) != 4 {
		t.Fatalf("want 4 bands, got %d", len(bands))
	}
	if bands[0].Band != BandStandard || bands[3].Band != BandFailure {
		t.Errorf("bands should be in descending clearance order, got %v..%v", bands[0].Band, bands[3].Band)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].MaxEGFR == nil {
			t.Errorf("band %q should carry an upper bound", bands[i].Band)
			continue
		}
		if *bands[i].MaxEGFR != bands[i-1].MinEGFR {
			t.Errorf("band %q upper bound %v should meet previous lower bound %v",
				bands[i].Band, *bands[i].MaxEGFR, bands[i-1].MinEGFR)
		}
	}
}

// ── Interpretation ──

func TestInterpret_Rising(t *testing.T) {
	res := KineticResult{EGFR: 46.96, DeltaSCr: 0.3, IntervalHours: 12}
	out := Interpret(res, 90, 6)

	if out.DisplayEGFR != 46.96 {
		t.Errorf("positive eGFR should display unchanged, got %v", out.DisplayEGFR)
	}
	if out.Band != BandModerate {
		t.Errorf("want band %q, got %q", BandModerate, out.Band)
	}
	want := []ObservationCode{ObsTrend, ObsEGFR, ObsReduction, ObsClinicalContext}
	got := codes(out.Observations)
	if len(got) != len(want) {
		t.Fatalf("want codes %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want codes %v, got %v", want, got)
		}
	}
	if !strings.Contains(out.Observations[0].Text, "rising by 0.300 mg/dL over 12.0 h") {
		t.Errorf("unexpected trend text %q", out.Observations[0].Text)
	}
	if !strings.Contains(out.Observations[2].Text, "48%") {
		t.Errorf("expected ≈48%% reduction, got %q", out.Observations[2].Text)
	}
}

func TestInterpret_Falling(t *testing.T) {
	res := KineticResult{EGFR: 110, DeltaSCr: -0.2, IntervalHours: 24}
	out := Interpret(res, 90, 6)
	if !strings.Contains(out.Observations[0].Text, "falling by 0.200 mg/dL") {
		t.Errorf("unexpected trend text %q", out.Observations[0].Text)
	}
	// Recovery above baseline never reports a negative reduction.
	if !strings.Contains(out.Observations[2].Text, "0%") {
		t.Errorf("reduction should floor at 0%%, got %q", out.Observations[2].Text)
	}
	if out.Band != BandStandard {
		t.Errorf("want band %q, got %q", BandStandard, out.Band)
	}
}

func TestInterpret_Unchanged(t *testing.T) {
	res := KineticResult{EGFR: 90, DeltaSCr: 0, IntervalHours: 8}
	out := Interpret(res, 90, 6)
	if !strings.Contains(out.Observations[0].Text, "unchanged over 8.0 h") {
		t.Errorf("unexpected trend text %q", out.Observations[0].Text)
	}
}

func TestInterpret_NegativeEGFR(t *testing.T) {
	res := KineticResult{EGFR: -154.29, DeltaSCr: 1.5, IntervalHours: 6}
	out := Interpret(res, 90, 6)

	if out.DisplayEGFR != 0 {
		t.Errorf("negative eGFR should display as 0, got %v", out.DisplayEGFR)
	}
	if out.Band != BandFailure {
		t.Errorf("want band %q, got %q", BandFailure, out.Band)
	}
	if !hasCode(out.Observations, ObsNegativeEGFR) {
		t.Error("expected the near-anuric caveat")
	}
	if !hasCode(out.Observations, ObsAccumulationRisk) {
		t.Error("expected the accumulation-risk warning below 30 mL/min")
	}
	if hasCode(out.Observations, ObsShortInterval) {
		t.Error("6 h interval at a 6 h threshold should not trip the short-interval caveat")
	}
}

func TestInterpret_ShortInterval(t *testing.T) {
	res := KineticResult{EGFR: 70, DeltaSCr: 0.1, IntervalHours: 4}
	out := Interpret(res, 90, 6)
	if !hasCode(out.Observations, ObsShortInterval) {
		t.Error("expected the short-interval caveat for 4 h at a 6 h threshold")
	}

	// The threshold is configurable; a 4 h reading clears a 3 h threshold.
	out = Interpret(res, 90, 3)
	if hasCode(out.Observations, ObsShortInterval) {
		t.Error("4 h interval at a 3 h threshold should not trip the caveat")
	}
}

func TestInterpret_ClosesWithClinicalContext(t *testing.T) {
	res := KineticResult{EGFR: 20, DeltaSCr: 0.5, IntervalHours: 10}
	out := Interpret(res, 90, 6)
	last := out.Observations[len(out.Observations)-1]
	if last.Code != ObsClinicalContext {
		t.Errorf("observation list should close with clinical context, got %q", last.Code)
	}
}

func TestInterpret_NotComputable(t *testing.T) {
	res := KineticResult{ErrorKind: ErrNonPositiveInterval}
	out := Interpret(res, 90, 6)
	if out.Band != BandUnknown {
		t.Errorf("want band %q, got %q", BandUnknown, out.Band)
	}
	if len(out.Observations) != 1 || out.Observations[0].Code != ObsNotComputable {
		t.Errorf("want a single not-computable observation, got %v", codes(out.Observations))
	}
}
