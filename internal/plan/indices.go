package plan

import (
	"fmt"
	"math"
)

// Physiological clamp bounds. Implausible inputs are clamped, not rejected.
const (
	minHeightCm   = 100.0
	maxHeightCm   = 250.0
	minWeightKg   = 30.0
	maxWeightKg   = 300.0
	minBodyFatPct = 3.0
	maxBodyFatPct = 60.0
	minWaistCm    = 40.0
	maxWaistCm    = 200.0

	minBMR  = 800
	maxBMR  = 3000
	minTDEE = 1200
	maxTDEE = 5000
	minBMI  = 10.0
	maxBMI  = 60.0

	// fallbackBMR keeps calorie, macro, workout, and meal generation going
	// when no BMR can be computed at all.
	fallbackBMR = 1500

	// overrideWarningThreshold is the relative divergence between a computed
	// value and its override beyond which a warning is emitted.
	overrideWarningThreshold = 0.15

	katchBase       = 370.0
	katchLeanFactor = 21.6

	mifflinWeightFactor = 10.0
	mifflinHeightFactor = 6.25
	mifflinAgeFactor    = 5.0
	mifflinMaleOffset   = 5.0
	mifflinFemaleOffset = -161.0

	defaultAgeMidpoint = 29
)

// ageMidpoints maps discrete age-range buckets to the midpoint age used in
// the Mifflin-St Jeor formula. Unknown buckets fall back to 29.
//
//nolint:gochecknoglobals // fixed lookup table.
var ageMidpoints = map[string]int{
	"18-24": 21,
	"25-34": 29,
	"35-44": 39,
	"45-54": 49,
	"55-64": 59,
	"65+":   70,
}

// activityMultipliers maps weekly training days (0-6) to the TDEE multiplier.
// Days beyond 6 clamp to 6.
//
//nolint:gochecknoglobals // fixed lookup table.
var activityMultipliers = [7]float64{1.2, 1.375, 1.425, 1.5, 1.55, 1.65, 1.725}

// ageFromRange resolves a discrete age-range bucket to its midpoint age.
// Both "25-34" and "25–34" spellings are accepted.
func ageFromRange(ageRange string) int {
	if midpoint, ok := ageMidpoints[normalizeAgeRange(ageRange)]; ok {
		return midpoint
	}
	return defaultAgeMidpoint
}

func normalizeAgeRange(ageRange string) string {
	out := make([]rune, 0, len(ageRange))
	for _, r := range ageRange {
		if r == '–' || r == '—' {
			r = '-'
		}
		out = append(out, r)
	}
	return string(out)
}

// activityMultiplier returns the TDEE multiplier for the given weekly
// training days.
func activityMultiplier(trainingDays int) float64 {
	if trainingDays < 0 {
		trainingDays = 0
	}
	if trainingDays > 6 {
		trainingDays = 6
	}
	return activityMultipliers[trainingDays]
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func clampOptional(v *float64, lo, hi float64) *float64 {
	if v == nil {
		return nil
	}
	clamped := clamp(*v, lo, hi)
	return &clamped
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// computeIndices derives all physiological indices from the profile together
// with the accuracy band and any override-divergence warnings. trainingDays
// drives the activity multiplier; callers without a schedule pass 0.
func computeIndices(profile Profile, trainingDays int) IndicesResult {
	height := clampOptional(profile.HeightCm, minHeightCm, maxHeightCm)
	weight := clampOptional(profile.WeightKg, minWeightKg, maxWeightKg)
	bodyFat := clampOptional(profile.BodyFatPct, minBodyFatPct, maxBodyFatPct)
	waist := clampOptional(profile.WaistCm, minWaistCm, maxWaistCm)

	var (
		indices  Indices
		warnings []string
	)

	computedBMR, method := computeBMR(profile.Sex, profile.AgeRange, height, weight, bodyFat)
	indices.Method = method
	if profile.BMROverride != nil {
		override := int(math.Round(clamp(*profile.BMROverride, minBMR, maxBMR)))
		warnings = appendOverrideWarning(warnings, "bmr", computedBMR, *profile.BMROverride)
		indices.BMR = &override
		indices.Method = MethodOverride
	} else if computedBMR != nil {
		indices.BMR = computedBMR
	}

	computedTDEE := computeTDEE(indices.BMR, trainingDays)
	if profile.TDEEOverride != nil {
		override := int(math.Round(clamp(*profile.TDEEOverride, minTDEE, maxTDEE)))
		warnings = appendOverrideWarning(warnings, "tdee", computedTDEE, *profile.TDEEOverride)
		indices.TDEE = &override
	} else if computedTDEE != nil {
		indices.TDEE = computedTDEE
	}

	computedBMI := computeBMI(height, weight)
	if profile.BMIOverride != nil {
		override := roundTo(clamp(*profile.BMIOverride, minBMI, maxBMI), 1)
		warnings = appendOverrideWarningFloat(warnings, "bmi", computedBMI, *profile.BMIOverride)
		indices.BMI = &override
	} else if computedBMI != nil {
		indices.BMI = computedBMI
	}

	// WHtR is advisory only and never drives targets.
	if waist != nil && height != nil {
		whtr := roundTo(*waist / *height, 2)
		indices.WHtR = &whtr
	}

	if weight != nil && height != nil && bodyFat != nil {
		heightM := *height / 100
		leanMass := *weight * (1 - *bodyFat/100)
		ffmi := roundTo(leanMass/(heightM*heightM), 1)
		indices.FFMI = &ffmi
	}

	return IndicesResult{
		Indices:  indices,
		Accuracy: gradeAccuracy(profile),
		Warnings: warnings,
	}
}

// computeBMR prefers Katch-McArdle when body fat is known, falls back to
// Mifflin-St Jeor, and returns nil when neither is computable.
func computeBMR(sex Sex, ageRange string, height, weight, bodyFat *float64) (*int, Method) {
	if weight != nil && bodyFat != nil {
		leanMass := *weight * (1 - *bodyFat/100)
		bmr := int(math.Round(clamp(katchBase+katchLeanFactor*leanMass, minBMR, maxBMR)))
		return &bmr, MethodKatch
	}
	if weight != nil && height != nil {
		age := float64(ageFromRange(ageRange))
		offset := mifflinFemaleOffset
		if sex == SexMale {
			offset = mifflinMaleOffset
		}
		raw := mifflinWeightFactor**weight + mifflinHeightFactor**height - mifflinAgeFactor*age + offset
		bmr := int(math.Round(clamp(raw, minBMR, maxBMR)))
		return &bmr, MethodMifflin
	}
	return nil, ""
}

func computeTDEE(bmr *int, trainingDays int) *int {
	if bmr == nil {
		return nil
	}
	tdee := int(math.Round(float64(*bmr) * activityMultiplier(trainingDays)))
	return &tdee
}

func computeBMI(height, weight *float64) *float64 {
	if height == nil || weight == nil {
		return nil
	}
	heightM := *height / 100
	bmi := roundTo(*weight/(heightM*heightM), 1)
	return &bmi
}

// gradeAccuracy places the profile on the strict completeness ladder. Exactly
// one band applies to any input; adding a field never lowers the band.
func gradeAccuracy(profile Profile) Accuracy {
	hasSex := profile.Sex != ""
	hasAge := profile.AgeRange != ""
	hasHeight := profile.HeightCm != nil
	hasWeight := profile.WeightKg != nil
	hasBodyFat := profile.BodyFatPct != nil
	hasWaist := profile.WaistCm != nil

	base := hasSex && hasAge && hasHeight && hasWeight
	switch {
	case base && hasBodyFat && hasWaist:
		return Accuracy{Band: BandHighest, NextBestInput: ""}
	case base && hasBodyFat:
		return Accuracy{Band: BandHigh, NextBestInput: "waist_cm"}
	case base:
		return Accuracy{Band: BandMed, NextBestInput: "bodyfat_pct"}
	}

	// Low band: name the most valuable missing input by fixed priority.
	next := "bodyfat_pct"
	switch {
	case !hasHeight:
		next = "height_cm"
	case !hasWeight:
		next = "weight_kg"
	case !hasAge:
		next = "age_range"
	}
	return Accuracy{Band: BandLow, NextBestInput: next}
}

func appendOverrideWarning(warnings []string, field string, computed *int, override float64) []string {
	if computed == nil {
		return warnings
	}
	return appendOverrideWarningFloat(warnings, field, ptrFloat(float64(*computed)), override)
}

func appendOverrideWarningFloat(warnings []string, field string, computed *float64, override float64) []string {
	if computed == nil || *computed == 0 {
		return warnings
	}
	divergence := math.Abs(override-*computed) / math.Abs(*computed)
	if divergence <= overrideWarningThreshold {
		return warnings
	}
	return append(warnings, fmt.Sprintf(
		"%s override %.0f diverges more than 15%% from computed %.0f", field, override, *computed))
}

func ptrFloat(v float64) *float64 {
	return &v
}
