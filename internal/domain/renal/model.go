package renal

import (
	"time"

	"github.com/google/uuid"
)

// Unit is a serum creatinine measurement unit. All internal math is done in
// mg/dL; µmol/L inputs are converted on the way in.
type Unit string

const (
	UnitMgDL  Unit = "mg/dL"
	UnitUmolL Unit = "umol/L"
)

// Sex as used by the Cockcroft-Gault and total-body-water estimates.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ErrorKind classifies why a kinetic computation could not produce a number.
// The zero value means success.
type ErrorKind string

const (
	ErrNone                  ErrorKind = ""
	ErrMissingOrNonpositive  ErrorKind = "missing_or_nonpositive_input"
	ErrNonPositiveInterval   ErrorKind = "non_positive_interval"
	ErrBadParameters         ErrorKind = "bad_parameters"
)

// MaxRiseSource records how the max daily creatinine rise was obtained.
type MaxRiseSource string

const (
	MaxRiseFixed     MaxRiseSource = "fixed"
	MaxRiseDerived   MaxRiseSource = "derived"
	MaxRiseDefaulted MaxRiseSource = "defaulted"
)

// MaxRise is the "maximum creatinine rise per day if anuric" parameter of the
// Chen formula, together with its provenance so callers can tell a computed
// value from a fallback.
type MaxRise struct {
	Value  float64       `json:"value"`
	Source MaxRiseSource `json:"source"`
}

// KineticInput holds the validated scalar and temporal inputs of one kinetic
// eGFR computation. Pointer fields distinguish "absent" from zero.
// Creatinine values are mg/dL, clearance mL/min, max rise mg/dL per day.
type KineticInput struct {
	SteadyStateSCr *float64
	BaselineCrCl   *float64
	SCr1           *float64
	Time1          *time.Time
	SCr2           *float64
	Time2          *time.Time
	MaxRisePerDay  float64
}

// KineticResult is the raw outcome of the Chen formula. EGFR may be negative
// when creatinine rises faster than the max-rise assumption allows; clamping
// happens only at interpretation time.
type KineticResult struct {
	EGFR          float64   `json:"kegfr"`
	DeltaSCr      float64   `json:"delta_scr"`
	IntervalHours float64   `json:"interval_hours"`
	ErrorKind     ErrorKind `json:"error_kind,omitempty"`
}

// OK reports whether the computation produced a usable number.
func (r KineticResult) OK() bool { return r.ErrorKind == ErrNone }

// DosingBand is a coarse clearance range used to guide dose adjustment.
type DosingBand string

const (
	BandStandard DosingBand = "standard-dosing"
	BandModerate DosingBand = "moderate-reduction"
	BandSevere   DosingBand = "severe-reduction"
	BandFailure  DosingBand = "kidney-failure-range"
	BandUnknown  DosingBand = "unknown"
)

// ObservationCode identifies one clinical observation emitted by the
// interpreter. Codes are stable; the accompanying text is for display.
type ObservationCode string

const (
	ObsTrend             ObservationCode = "creatinine-trend"
	ObsEGFR              ObservationCode = "kinetic-egfr"
	ObsReduction         ObservationCode = "functional-reduction"
	ObsShortInterval     ObservationCode = "short-interval"
	ObsNegativeEGFR      ObservationCode = "negative-egfr"
	ObsAccumulationRisk  ObservationCode = "accumulation-risk"
	ObsClinicalContext   ObservationCode = "clinical-context"
	ObsNotComputable     ObservationCode = "not-computable"
)

// Observation is one interpreter finding. The slice order in Interpretation
// is meaningful for readability and is preserved as emitted.
type Observation struct {
	Code ObservationCode `json:"code"`
	Text string          `json:"text"`
}

// Interpretation is the presentation-ready view of a KineticResult.
type Interpretation struct {
	DisplayEGFR  float64       `json:"kegfr_display"`
	Band         DosingBand    `json:"dosing_band"`
	BandLabel    string        `json:"dosing_band_label"`
	Observations []Observation `json:"observations"`
}

// -- Request / response DTOs --

// BaselineInput selects the baseline clearance source: a directly entered
// CrCl, or Cockcroft-Gault from age/sex/weight/creatinine.
type BaselineInput struct {
	CrCl     *float64 `json:"crcl,omitempty"`
	Age      *int     `json:"age,omitempty"`
	Sex      Sex      `json:"sex,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	SCr      *float64 `json:"scr,omitempty"`
}

// MaxRiseInput selects how the max daily rise parameter is obtained.
// Mode "fixed" uses Fixed (or the server default when omitted); mode "tbw"
// derives it from total body water.
type MaxRiseInput struct {
	Mode     string   `json:"mode"`
	Fixed    *float64 `json:"fixed,omitempty"`
	Sex      Sex      `json:"sex,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
}

// FluidBalanceInput requests the optional dilution correction of the two
// kinetic-window creatinine values. FB values are cumulative fluid balance
// in liters at each draw and may be negative.
type FluidBalanceInput struct {
	FB1Liters *float64 `json:"fb1_liters"`
	FB2Liters *float64 `json:"fb2_liters"`
	Sex       Sex      `json:"sex"`
	WeightKg  *float64 `json:"weight_kg"`
}

// ComputeRequest is the full input of one kinetic eGFR computation.
// Creatinine values are interpreted in Unit (default mg/dL); t2 must be
// strictly after t1.
type ComputeRequest struct {
	Unit           Unit               `json:"unit,omitempty"`
	SteadyStateSCr *float64           `json:"scr_ss"`
	Baseline       BaselineInput      `json:"baseline"`
	SCr1           *float64           `json:"scr1"`
	Time1          *time.Time         `json:"t1"`
	SCr2           *float64           `json:"scr2"`
	Time2          *time.Time         `json:"t2"`
	MaxRise        *MaxRiseInput      `json:"max_rise,omitempty"`
	FluidBalance   *FluidBalanceInput `json:"fluid_balance,omitempty"`
}

// ResultView pairs a kinetic result with its interpretation.
type ResultView struct {
	KineticResult
	Interpretation
}

// ComputeResponse is the outcome of one computation. Corrected is present
// only when fluid-balance correction was requested with usable inputs; it
// supplements the raw result rather than replacing it.
type ComputeResponse struct {
	ID             uuid.UUID  `json:"id"`
	BaselineCrCl   float64    `json:"baseline_crcl"`
	BaselineSource string     `json:"baseline_source"`
	MaxRise        MaxRise    `json:"max_rise"`
	Raw            ResultView `json:"raw"`
	Corrected      *ResultView `json:"fb_corrected,omitempty"`
}

// BaselineRequest asks for a standalone Cockcroft-Gault estimate.
type BaselineRequest struct {
	Unit     Unit     `json:"unit,omitempty"`
	Age      *int     `json:"age"`
	Sex      Sex      `json:"sex"`
	WeightKg *float64 `json:"weight_kg"`
	SCr      *float64 `json:"scr"`
}

// BaselineResponse carries the estimated clearance in mL/min, unindexed to
// body surface area.
type BaselineResponse struct {
	CrCl float64 `json:"crcl"`
}

// BandInfo describes one dosing band for the reference endpoint.
type BandInfo struct {
	Band     DosingBand `json:"band"`
	Label    string     `json:"label"`
	MinEGFR  float64    `json:"min_egfr"`
	MaxEGFR  *float64   `json:"max_egfr,omitempty"`
}
