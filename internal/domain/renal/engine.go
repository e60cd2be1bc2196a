package renal

// Kinetic eGFR per Chen (non-steady state):
//
//	KeGFR = (SCr_ss × CrCl_ss / MeanSCr) × [1 − (24 × ΔSCr) / (Δt_h × MaxΔSCr/day)]
//
// Units: creatinine mg/dL, clearance mL/min (unindexed), Δt hours.
// Every function in this file is pure: no I/O, no shared state, no panics.

const (
	// UmolPerMgDL converts serum creatinine between µmol/L and mg/dL.
	UmolPerMgDL = 88.4

	// DefaultMaxRisePerDay is the fixed max daily creatinine rise assumed
	// when no derived value is available, in mg/dL per day.
	DefaultMaxRisePerDay = 1.5

	// MinDerivedMaxRise and MaxDerivedMaxRise bound the TBW-derived max
	// rise. Fixed values are passed through unclamped.
	MinDerivedMaxRise = 0.5
	MaxDerivedMaxRise = 5.0
)

// ToMgDL normalizes a creatinine value to mg/dL. A nil value propagates as
// nil rather than an error.
func ToMgDL(value *float64, unit Unit) *float64 {
	if value == nil {
		return nil
	}
	if unit == UnitUmolL {
		v := *value / UmolPerMgDL
		return &v
	}
	v := *value
	return &v
}

// CockcroftGault estimates an unindexed creatinine clearance in mL/min:
//
//	CrCl = ((140 − age) × weight) / (72 × SCr), ×0.85 for females
//
// Missing or non-positive inputs yield nil. Age ≥ 140 is deliberately not
// rejected: the degenerate non-positive clearance propagates and the kinetic
// step refuses it as a non-positive baseline.
func CockcroftGault(age *int, sex Sex, weightKg, scrMgDL *float64) *float64 {
	if age == nil || weightKg == nil || scrMgDL == nil {
		return nil
	}
	if *age <= 0 || *weightKg <= 0 || *scrMgDL <= 0 {
		return nil
	}
	crcl := (float64(140-*age) * *weightKg) / (72 * *scrMgDL)
	if sex == SexFemale {
		crcl *= 0.85
	}
	return &crcl
}

// TotalBodyWaterLiters estimates total body water as 0.6×weight for males
// and 0.5×weight for females. Non-positive weight yields 0.
func TotalBodyWaterLiters(sex Sex, weightKg float64) float64 {
	if weightKg <= 0 {
		return 0
	}
	coef := 0.6
	if sex == SexFemale {
		coef = 0.5
	}
	return coef * weightKg
}

// ResolveMaxRiseFixed wraps a caller-supplied fixed max rise. The value is
// passed through unclamped.
func ResolveMaxRiseFixed(value float64) MaxRise {
	return MaxRise{Value: value, Source: MaxRiseFixed}
}

// ResolveMaxRiseFromTBW derives the max daily creatinine rise from total
// body water:
//
//	MaxΔSCr/day = (SCr_ss × CrCl_ss / TBW) × 1440 / 1000
//
// (×1440 converts per-minute to per-day, ÷1000 converts mL to L). The result
// is clamped to [MinDerivedMaxRise, MaxDerivedMaxRise]. When any required
// input is missing or non-positive the function falls back to fixedDefault
// with source "defaulted" instead of failing.
func ResolveMaxRiseFromTBW(scrSS, crclSS *float64, sex Sex, weightKg *float64, fixedDefault float64) MaxRise {
	if scrSS == nil || crclSS == nil || weightKg == nil ||
		*scrSS <= 0 || *crclSS <= 0 || *weightKg <= 0 {
		return MaxRise{Value: fixedDefault, Source: MaxRiseDefaulted}
	}
	tbw := TotalBodyWaterLiters(sex, *weightKg)
	if tbw <= 0 {
		return MaxRise{Value: fixedDefault, Source: MaxRiseDefaulted}
	}
	v := (*scrSS * *crclSS / tbw) * 1440.0 / 1000.0
	if v < MinDerivedMaxRise {
		v = MinDerivedMaxRise
	}
	if v > MaxDerivedMaxRise {
		v = MaxDerivedMaxRise
	}
	return MaxRise{Value: v, Source: MaxRiseDerived}
}

// CorrectForFluidBalance adjusts a measured creatinine for dilution or
// concentration from cumulative fluid balance:
//
//	SCr_corrected = SCr × (1 + FB/TBW)
//
// FB may be negative. Unusable FB or TBW returns the creatinine unchanged;
// the correction never fails.
func CorrectForFluidBalance(scr float64, fbLiters, tbwLiters *float64) float64 {
	if fbLiters == nil || tbwLiters == nil || *tbwLiters <= 0 {
		return scr
	}
	return scr * (1.0 + *fbLiters / *tbwLiters)
}

// ComputeKineticEGFR evaluates the Chen formula over two serial creatinine
// readings. Failures are reported through KineticResult.ErrorKind, never as
// an error value or a panic. The returned EGFR is unclamped and unrounded.
func ComputeKineticEGFR(in KineticInput) KineticResult {
	if in.SteadyStateSCr == nil || in.BaselineCrCl == nil ||
		in.SCr1 == nil || in.Time1 == nil || in.SCr2 == nil || in.Time2 == nil {
		return KineticResult{ErrorKind: ErrMissingOrNonpositive}
	}
	if *in.SteadyStateSCr <= 0 || *in.BaselineCrCl <= 0 || *in.SCr1 <= 0 || *in.SCr2 <= 0 {
		return KineticResult{ErrorKind: ErrMissingOrNonpositive}
	}

	intervalHours := in.Time2.Sub(*in.Time1).Hours()
	if intervalHours <= 0 {
		return KineticResult{ErrorKind: ErrNonPositiveInterval}
	}

	meanSCr := (*in.SCr1 + *in.SCr2) / 2.0
	if meanSCr <= 0 || in.MaxRisePerDay <= 0 {
		return KineticResult{ErrorKind: ErrBadParameters}
	}

	delta := *in.SCr2 - *in.SCr1
	term := 1.0 - (24.0*delta)/(intervalHours*in.MaxRisePerDay)
	egfr := (*in.SteadyStateSCr * *in.BaselineCrCl / meanSCr) * term

	return KineticResult{
		EGFR:          egfr,
		DeltaSCr:      delta,
		IntervalHours: intervalHours,
	}
}
