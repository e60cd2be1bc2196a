package renal

import "fmt"

// DefaultWarnIntervalHours is the sampling interval below which the kinetic
// estimate is flagged as potentially noisy.
const DefaultWarnIntervalHours = 6.0

var bandLabels = map[DosingBand]string{
	BandStandard: "≥60 mL/min – standard dosing in most monographs",
	BandModerate: "30–59 mL/min – moderate reduction",
	BandSevere:   "15–29 mL/min – severe reduction",
	BandFailure:  "<15 mL/min – kidney failure range",
	BandUnknown:  "unknown",
}

// BandFor maps a clamped (non-negative) eGFR to its dosing band. It is total
// on [0, inf).
func BandFor(displayEGFR float64) DosingBand {
	switch {
	case displayEGFR >= 60:
		return BandStandard
	case displayEGFR >= 30:
		return BandModerate
	case displayEGFR >= 15:
		return BandSevere
	default:
		return BandFailure
	}
}

// BandLabel returns the human-readable description of a band.
func BandLabel(b DosingBand) string {
	if l, ok := bandLabels[b]; ok {
		return l
	}
	return string(b)
}

// DosingBands lists the bands in descending clearance order, for the
// reference endpoint.
func DosingBands() []BandInfo {
	f := func(v float64) *float64 { return &v }
	return []BandInfo{
		{Band: BandStandard, Label: BandLabel(BandStandard), MinEGFR: 60},
		{Band: BandModerate, Label: BandLabel(BandModerate), MinEGFR: 30, MaxEGFR: f(60)},
		{Band: BandSevere, Label: BandLabel(BandSevere), MinEGFR: 15, MaxEGFR: f(30)},
		{Band: BandFailure, Label: BandLabel(BandFailure), MinEGFR: 0, MaxEGFR: f(15)},
	}
}

// Interpret turns a kinetic result into its presentation view: the eGFR
// clamped to zero, the dosing band, and the ordered observation list. The
// clamp is presentation-only; it never feeds back into computation.
// warnIntervalHours is the noise-caveat threshold (DefaultWarnIntervalHours
// when non-positive).
func Interpret(res KineticResult, baselineCrCl, warnIntervalHours float64) Interpretation {
	if !res.OK() {
		return Interpretation{
			Band:      BandUnknown,
			BandLabel: BandLabel(BandUnknown),
			Observations: []Observation{
				{Code: ObsNotComputable, Text: "Cannot compute with the current inputs."},
			},
		}
	}
	if warnIntervalHours <= 0 {
		warnIntervalHours = DefaultWarnIntervalHours
	}

	display := res.EGFR
	if display < 0 {
		display = 0
	}
	band := BandFor(display)

	obs := make([]Observation, 0, 7)
	switch {
	case res.DeltaSCr > 0:
		obs = append(obs, Observation{Code: ObsTrend, Text: fmt.Sprintf(
			"Serum creatinine is rising by %.3f mg/dL over %.1f h.", res.DeltaSCr, res.IntervalHours)})
	case res.DeltaSCr < 0:
		obs = append(obs, Observation{Code: ObsTrend, Text: fmt.Sprintf(
			"Serum creatinine is falling by %.3f mg/dL over %.1f h.", -res.DeltaSCr, res.IntervalHours)})
	default:
		obs = append(obs, Observation{Code: ObsTrend, Text: fmt.Sprintf(
			"Serum creatinine unchanged over %.1f h.", res.IntervalHours)})
	}

	obs = append(obs, Observation{Code: ObsEGFR, Text: fmt.Sprintf(
		"Kinetic eGFR ≈ %.1f mL/min (unindexed). Dosing band: %s.", display, BandLabel(band))})

	if baselineCrCl > 0 {
		drop := (1.0 - display/baselineCrCl) * 100.0
		if drop < 0 {
			drop = 0
		}
		obs = append(obs, Observation{Code: ObsReduction, Text: fmt.Sprintf(
			"Functional reduction vs baseline ≈ %.0f%%.", drop)})
	}

	if res.IntervalHours < warnIntervalHours {
		obs = append(obs, Observation{Code: ObsShortInterval, Text: fmt.Sprintf(
			"Interval <%g h – kinetic estimate can be noisy; repeat later.", warnIntervalHours)})
	}

	if res.EGFR < 0 {
		obs = append(obs, Observation{Code: ObsNegativeEGFR,
			Text: "Computed value is negative; treat clinically as ~0 mL/min (near-anuric)."})
	}

	if display < 30 {
		obs = append(obs, Observation{Code: ObsAccumulationRisk,
			Text: "High risk for drug accumulation – consider measured urine CrCl and review nephrotoxins."})
	}

	obs = append(obs, Observation{Code: ObsClinicalContext,
		Text: "Caution in early shock or rapidly fluctuating states; correlate with urine output and clinical context."})

	return Interpretation{
		DisplayEGFR:  display,
		Band:         band,
		BandLabel:    BandLabel(band),
		Observations: obs,
	}
}
