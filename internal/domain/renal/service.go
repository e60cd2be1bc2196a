package renal

import (
	"context"

	"github.com/google/uuid"
)

// ComputeError is the typed failure a computation can surface. Kind drives
// the HTTP mapping; Message is safe to show to the caller.
type ComputeError struct {
	Kind    ErrorKind
	Message string
}

func (e *ComputeError) Error() string { return e.Message }

func computeErr(kind ErrorKind) *ComputeError {
	switch kind {
	case ErrNonPositiveInterval:
		return &ComputeError{Kind: kind, Message: "time of second reading must be after the first"}
	default:
		return &ComputeError{Kind: kind, Message: "unable to compute; check values and units"}
	}
}

type Service struct {
	defaultMaxRise    float64
	warnIntervalHours float64
}

// NewService builds the computation service. Non-positive arguments fall
// back to the engine defaults (1.5 mg/dL/day, 6 h).
func NewService(defaultMaxRise, warnIntervalHours float64) *Service {
	if defaultMaxRise <= 0 {
		defaultMaxRise = DefaultMaxRisePerDay
	}
	if warnIntervalHours <= 0 {
		warnIntervalHours = DefaultWarnIntervalHours
	}
	return &Service{
		defaultMaxRise:    defaultMaxRise,
		warnIntervalHours: warnIntervalHours,
	}
}

// normalizeUnit maps the accepted unit spellings onto the internal enum.
// An empty unit means mg/dL.
func normalizeUnit(u Unit) (Unit, bool) {
	switch u {
	case "", UnitMgDL:
		return UnitMgDL, true
	case UnitUmolL, "µmol/L", "μmol/L":
		return UnitUmolL, true
	default:
		return "", false
	}
}

// Compute runs one full kinetic eGFR computation: unit normalization,
// baseline resolution, max-rise resolution, the Chen formula, and the
// interpretation of the result. When fluid-balance correction is requested
// with usable inputs a parallel corrected result is produced alongside the
// raw one. The call is stateless; nothing is retained afterwards.
func (s *Service) Compute(ctx context.Context, req *ComputeRequest) (*ComputeResponse, error) {
	unit, ok := normalizeUnit(req.Unit)
	if !ok {
		return nil, computeErr(ErrMissingOrNonpositive)
	}

	scrSS := ToMgDL(req.SteadyStateSCr, unit)
	scr1 := ToMgDL(req.SCr1, unit)
	scr2 := ToMgDL(req.SCr2, unit)

	crcl, source, err := s.resolveBaseline(req, unit, scrSS)
	if err != nil {
		return nil, err
	}

	maxRise := s.resolveMaxRise(req.MaxRise, scrSS, &crcl)

	raw := ComputeKineticEGFR(KineticInput{
		SteadyStateSCr: scrSS,
		BaselineCrCl:   &crcl,
		SCr1:           scr1,
		Time1:          req.Time1,
		SCr2:           scr2,
		Time2:          req.Time2,
		MaxRisePerDay:  maxRise.Value,
	})
	if !raw.OK() {
		return nil, computeErr(raw.ErrorKind)
	}

	resp := &ComputeResponse{
		ID:             uuid.New(),
		BaselineCrCl:   crcl,
		BaselineSource: source,
		MaxRise:        maxRise,
		Raw: ResultView{
			KineticResult:  raw,
			Interpretation: Interpret(raw, crcl, s.warnIntervalHours),
		},
	}

	if corrected := s.computeCorrected(req, scrSS, &crcl, scr1, scr2, maxRise); corrected != nil {
		resp.Corrected = corrected
	}

	return resp, nil
}

// resolveBaseline picks the baseline clearance: an explicitly entered CrCl
// wins, otherwise Cockcroft-Gault. The creatinine for Cockcroft-Gault
// defaults to the steady-state value when not given separately.
func (s *Service) resolveBaseline(req *ComputeRequest, unit Unit, scrSS *float64) (float64, string, error) {
	if req.Baseline.CrCl != nil {
		if *req.Baseline.CrCl <= 0 {
			return 0, "", &ComputeError{Kind: ErrMissingOrNonpositive,
				Message: "provide a valid baseline CrCl (>0)"}
		}
		return *req.Baseline.CrCl, "direct", nil
	}

	cgSCr := ToMgDL(req.Baseline.SCr, unit)
	if cgSCr == nil {
		cgSCr = scrSS
	}
	crcl := CockcroftGault(req.Baseline.Age, req.Baseline.Sex, req.Baseline.WeightKg, cgSCr)
	if crcl == nil || *crcl <= 0 {
		return 0, "", &ComputeError{Kind: ErrMissingOrNonpositive,
			Message: "provide a valid baseline CrCl (>0)"}
	}
	return *crcl, "cockcroft-gault", nil
}

// resolveMaxRise never fails: anything unusable degrades to the configured
// fixed default so the caller can still compute, with the fallback made
// visible through MaxRise.Source.
func (s *Service) resolveMaxRise(in *MaxRiseInput, scrSS, crcl *float64) MaxRise {
	if in == nil {
		return ResolveMaxRiseFixed(s.defaultMaxRise)
	}
	switch in.Mode {
	case "", "fixed":
		if in.Fixed != nil {
			return ResolveMaxRiseFixed(*in.Fixed)
		}
		return ResolveMaxRiseFixed(s.defaultMaxRise)
	case "tbw":
		return ResolveMaxRiseFromTBW(scrSS, crcl, in.Sex, in.WeightKg, s.defaultMaxRise)
	default:
		return MaxRise{Value: s.defaultMaxRise, Source: MaxRiseDefaulted}
	}
}

// computeCorrected produces the fluid-balance-corrected companion result, or
// nil when correction was not requested, its inputs are unusable, or the
// corrected pair itself cannot be computed.
func (s *Service) computeCorrected(req *ComputeRequest, scrSS, crcl, scr1, scr2 *float64, maxRise MaxRise) *ResultView {
	fb := req.FluidBalance
	if fb == nil || fb.WeightKg == nil || scr1 == nil || scr2 == nil {
		return nil
	}
	tbw := TotalBodyWaterLiters(fb.Sex, *fb.WeightKg)
	if tbw <= 0 {
		return nil
	}

	c1 := CorrectForFluidBalance(*scr1, fb.FB1Liters, &tbw)
	c2 := CorrectForFluidBalance(*scr2, fb.FB2Liters, &tbw)

	res := ComputeKineticEGFR(KineticInput{
		SteadyStateSCr: scrSS,
		BaselineCrCl:   crcl,
		SCr1:           &c1,
		Time1:          req.Time1,
		SCr2:           &c2,
		Time2:          req.Time2,
		MaxRisePerDay:  maxRise.Value,
	})
	if !res.OK() {
		return nil
	}
	return &ResultView{
		KineticResult:  res,
		Interpretation: Interpret(res, *crcl, s.warnIntervalHours),
	}
}

// EstimateBaseline exposes the Cockcroft-Gault estimate on its own, for the
// baseline preview before a full computation.
func (s *Service) EstimateBaseline(ctx context.Context, req *BaselineRequest) (*BaselineResponse, error) {
	unit, ok := normalizeUnit(req.Unit)
	if !ok {
		return nil, &ComputeError{Kind: ErrMissingOrNonpositive,
			Message: "unable to compute; check values and units"}
	}
	crcl := CockcroftGault(req.Age, req.Sex, req.WeightKg, ToMgDL(req.SCr, unit))
	if crcl == nil {
		return nil, &ComputeError{Kind: ErrMissingOrNonpositive,
			Message: "cannot compute Cockcroft-Gault with current inputs"}
	}
	return &BaselineResponse{CrCl: *crcl}, nil
}

// Bands returns the dosing band reference table.
func (s *Service) Bands(ctx context.Context) []BandInfo {
	return DosingBands()
}
