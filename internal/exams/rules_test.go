package exams

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func sampleRules() []Rule {
	return []Rule{
		{ID: "adult-panel", Gender: GenderAll, AgeMin: intPtr(18), Exams: []string{"Hemograma completo"}},
		{ID: "female-sexual", Gender: GenderFemale, Conditions: []string{"sexual_activity"}, Exams: []string{"Beta HCG"}},
	}
}

func TestResolve_GuardMatrix(t *testing.T) {
	rules := sampleRules()

	cases := []struct {
		name    string
		profile Profile
		want    []string
	}{
		{
			name:    "adult male gets the age-gated exam only",
			profile: Profile{Gender: GenderMale, Age: intPtr(25)},
			want:    []string{"Hemograma completo"},
		},
		{
			name:    "adult female with matching condition gets both",
			profile: Profile{Gender: GenderFemale, Age: intPtr(20), Conditions: []string{"sexual_activity"}},
			want:    []string{"Hemograma completo", "Beta HCG"},
		},
		{
			name:    "child matches nothing",
			profile: Profile{Gender: GenderMale, Age: intPtr(10)},
			want:    nil,
		},
		{
			name:    "female without the condition tag skips the conditional rule",
			profile: Profile{Gender: GenderFemale, Age: intPtr(30)},
			want:    []string{"Hemograma completo"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.profile, rules))
		})
	}
}

func TestResolve_UnknownAgeFailsBoundedRules(t *testing.T) {
	rules := []Rule{
		{ID: "bounded", Gender: GenderAll, AgeMin: intPtr(18), AgeMax: intPtr(60), Exams: []string{"Glicemia"}},
		{ID: "unbounded", Gender: GenderAll, Exams: []string{"Tipagem sanguínea"}},
	}

	got := Resolve(Profile{Gender: GenderMale}, rules)
	assert.Equal(t, []string{"Tipagem sanguínea"}, got)
}

func TestResolve_DeduplicatesAcrossRules(t *testing.T) {
	rules := []Rule{
		{ID: "a", Gender: GenderAll, Exams: []string{"Hemograma completo", "Glicemia"}},
		{ID: "b", Gender: GenderAll, Exams: []string{"Glicemia", "Creatinina"}},
	}

	got := Resolve(Profile{Gender: GenderFemale}, rules)
	assert.Equal(t, []string{"Hemograma completo", "Glicemia", "Creatinina"}, got)
}

func TestResolve_ConditionIsORMatched(t *testing.T) {
	rules := []Rule{
		{ID: "c", Gender: GenderAll, Conditions: []string{"diabetes", "hypertension"}, Exams: []string{"Hemoglobina glicada"}},
	}

	got := Resolve(Profile{Gender: GenderMale, Conditions: []string{"hypertension"}}, rules)
	assert.Equal(t, []string{"Hemoglobina glicada"}, got)

	got = Resolve(Profile{Gender: GenderMale, Conditions: []string{"smoker"}}, rules)
	assert.Nil(t, got)
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 23, AgeAt(birth, time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, AgeAt(birth, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, AgeAt(birth, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, AgeAt(birth, time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRuleValidate(t *testing.T) {
	valid := Rule{ID: "r", Gender: GenderAll, Exams: []string{"X"}}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Rule{ID: "r", Gender: "unknown", Exams: []string{"X"}}.Validate())
	assert.Error(t, Rule{ID: "r", Gender: GenderAll}.Validate())
	assert.Error(t, Rule{ID: "r", Gender: GenderAll, AgeMin: intPtr(40), AgeMax: intPtr(18), Exams: []string{"X"}}.Validate())
}
