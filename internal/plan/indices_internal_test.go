package plan

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestComputeIndices_BMR(t *testing.T) {
	tests := []struct {
		name       string
		profile    Profile
		days       int
		wantBMR    int
		wantMethod Method
	}{
		{
			name: "mifflin male",
			profile: Profile{
				Sex:      SexMale,
				AgeRange: "25-34",
				HeightCm: floatPtr(175),
				WeightKg: floatPtr(75),
			},
			days:       4,
			wantBMR:    1704,
			wantMethod: MethodMifflin,
		},
		{
			name: "mifflin female",
			profile: Profile{
				Sex:      SexFemale,
				AgeRange: "25-34",
				HeightCm: floatPtr(165),
				WeightKg: floatPtr(60),
			},
			days:       3,
			wantBMR:    1325,
			wantMethod: MethodMifflin,
		},
		{
			name: "katch wins over mifflin when bodyfat known",
			profile: Profile{
				Sex:        SexMale,
				AgeRange:   "25-34",
				HeightCm:   floatPtr(175),
				WeightKg:   floatPtr(75),
				BodyFatPct: floatPtr(15),
			},
			days:       4,
			wantBMR:    1747,
			wantMethod: MethodKatch,
		},
		{
			name: "override wins and is clamped",
			profile: Profile{
				Sex:         SexMale,
				AgeRange:    "25-34",
				HeightCm:    floatPtr(175),
				WeightKg:    floatPtr(75),
				BMROverride: floatPtr(9000),
			},
			days:       4,
			wantBMR:    3000,
			wantMethod: MethodOverride,
		},
		{
			name: "unknown age range uses default midpoint",
			profile: Profile{
				Sex:      SexMale,
				AgeRange: "whenever",
				HeightCm: floatPtr(175),
				WeightKg: floatPtr(75),
			},
			days:       4,
			wantBMR:    1704,
			wantMethod: MethodMifflin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeIndices(tt.profile, tt.days)
			if got.Indices.BMR == nil {
				t.Fatal("expected a BMR")
			}
			if *got.Indices.BMR != tt.wantBMR {
				t.Errorf("BMR = %d, want %d", *got.Indices.BMR, tt.wantBMR)
			}
			if got.Indices.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", got.Indices.Method, tt.wantMethod)
			}
		})
	}
}

func TestComputeIndices_TDEEMultiplierTable(t *testing.T) {
	// BMR pinned via override so the test exercises exactly the multiplier.
	profile := Profile{
		Sex:         SexMale,
		AgeRange:    "25-34",
		BMROverride: floatPtr(1730),
	}

	tests := []struct {
		days int
		want int
	}{
		{days: 0, want: 2076},
		{days: 1, want: 2379},
		{days: 2, want: 2465},
		{days: 3, want: 2595},
		{days: 4, want: 2682},
		{days: 5, want: 2855},
		{days: 6, want: 2984},
		{days: 7, want: 2984}, // clamps to 6
	}
	for _, tt := range tests {
		got := computeIndices(profile, tt.days)
		if got.Indices.TDEE == nil {
			t.Fatalf("days=%d: expected a TDEE", tt.days)
		}
		if *got.Indices.TDEE != tt.want {
			t.Errorf("days=%d: TDEE = %d, want %d", tt.days, *got.Indices.TDEE, tt.want)
		}
	}
}

func TestComputeIndices_BodyComposition(t *testing.T) {
	profile := Profile{
		Sex:        SexMale,
		AgeRange:   "25-34",
		HeightCm:   floatPtr(175),
		WeightKg:   floatPtr(75),
		BodyFatPct: floatPtr(15),
		WaistCm:    floatPtr(82),
	}
	got := computeIndices(profile, 4)

	if want := 24.5; got.Indices.BMI == nil || *got.Indices.BMI != want {
		t.Errorf("BMI = %v, want %v", got.Indices.BMI, want)
	}
	if want := 0.47; got.Indices.WHtR == nil || *got.Indices.WHtR != want {
		t.Errorf("WHtR = %v, want %v", got.Indices.WHtR, want)
	}
	if want := 20.8; got.Indices.FFMI == nil || *got.Indices.FFMI != want {
		t.Errorf("FFMI = %v, want %v", got.Indices.FFMI, want)
	}
}

func TestComputeIndices_MissingInputsYieldNils(t *testing.T) {
	got := computeIndices(Profile{Sex: SexFemale, AgeRange: "35-44"}, 3)

	want := Indices{}
	if diff := cmp.Diff(want, got.Indices); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeIndices_InputClamping(t *testing.T) {
	profile := Profile{
		Sex:      SexMale,
		AgeRange: "25-34",
		HeightCm: floatPtr(9000), // clamps to 250
		WeightKg: floatPtr(1),    // clamps to 30
	}
	got := computeIndices(profile, 0)
	if got.Indices.BMI == nil {
		t.Fatal("expected a BMI")
	}
	// 30kg at 2.50m.
	if want := 4.8; *got.Indices.BMI != want {
		t.Errorf("BMI = %v, want %v", *got.Indices.BMI, want)
	}
}

func TestGradeAccuracy(t *testing.T) {
	full := Profile{
		Sex:        SexMale,
		AgeRange:   "25-34",
		HeightCm:   floatPtr(175),
		WeightKg:   floatPtr(75),
		BodyFatPct: floatPtr(15),
		WaistCm:    floatPtr(82),
	}

	tests := []struct {
		name   string
		mutate func(p *Profile)
		want   Accuracy
	}{
		{
			name:   "all inputs present",
			mutate: func(_ *Profile) {},
			want:   Accuracy{Band: BandHighest},
		},
		{
			name:   "missing waist",
			mutate: func(p *Profile) { p.WaistCm = nil },
			want:   Accuracy{Band: BandHigh, NextBestInput: "waist_cm"},
		},
		{
			name:   "missing bodyfat and waist",
			mutate: func(p *Profile) { p.BodyFatPct = nil; p.WaistCm = nil },
			want:   Accuracy{Band: BandMed, NextBestInput: "bodyfat_pct"},
		},
		{
			name:   "missing height outranks weight",
			mutate: func(p *Profile) { p.HeightCm = nil; p.WeightKg = nil },
			want:   Accuracy{Band: BandLow, NextBestInput: "height_cm"},
		},
		{
			name:   "missing weight only",
			mutate: func(p *Profile) { p.WeightKg = nil },
			want:   Accuracy{Band: BandLow, NextBestInput: "weight_kg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := full
			tt.mutate(&profile)
			got := gradeAccuracy(profile)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("accuracy mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeIndices_OverrideDivergenceWarning(t *testing.T) {
	profile := Profile{
		Sex:         SexMale,
		AgeRange:    "25-34",
		HeightCm:    floatPtr(175),
		WeightKg:    floatPtr(75),
		BMROverride: floatPtr(2500), // computed is 1704, far beyond 15%
	}
	got := computeIndices(profile, 4)

	if len(got.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", got.Warnings)
	}
	if !strings.Contains(got.Warnings[0], "bmr") {
		t.Errorf("warning %q does not name the field", got.Warnings[0])
	}

	// A close override stays silent.
	profile.BMROverride = floatPtr(1750)
	got = computeIndices(profile, 4)
	if len(got.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", got.Warnings)
	}
}
