package exams

import (
	"fmt"
	"time"
)

// Gender values accepted by rule guards. "all" matches every patient.
const (
	GenderAll    = "all"
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Rule is one guarded entry of a procedure's exam-requirement list. A rule
// contributes its Exams when every guard passes.
type Rule struct {
	ID         string   `json:"id"`
	Gender     string   `json:"gender"`
	AgeMin     *int     `json:"age_min,omitempty"`
	AgeMax     *int     `json:"age_max,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	Exams      []string `json:"exams"`
}

// Validate rejects malformed rules at the data-access boundary so the
// resolver can trust its input.
func (r Rule) Validate() error {
	switch r.Gender {
	case GenderAll, GenderMale, GenderFemale, GenderOther:
	default:
		return fmt.Errorf("rule %s: invalid gender %q", r.ID, r.Gender)
	}
	if r.AgeMin != nil && *r.AgeMin < 0 {
		return fmt.Errorf("rule %s: negative age_min", r.ID)
	}
	if r.AgeMax != nil && *r.AgeMax < 0 {
		return fmt.Errorf("rule %s: negative age_max", r.ID)
	}
	if r.AgeMin != nil && r.AgeMax != nil && *r.AgeMin > *r.AgeMax {
		return fmt.Errorf("rule %s: age_min %d greater than age_max %d", r.ID, *r.AgeMin, *r.AgeMax)
	}
	if len(r.Exams) == 0 {
		return fmt.Errorf("rule %s: no exams", r.ID)
	}
	return nil
}

// Profile is the resolution input derived from a patient at call time.
// Age is nil when the patient has no recorded birth date.
type Profile struct {
	Gender     string
	Age        *int
	Conditions []string
}

// AgeAt computes age in completed years: the year difference, decremented
// when the anniversary has not yet occurred.
func AgeAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	anniversary := time.Date(at.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC).Before(anniversary) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// Resolve returns the deduplicated union of exams from every rule whose
// guards all pass, in first-seen order.
//
// A rule with age bounds never matches a patient of unknown age. The lenient
// alternative would let age-gated rules apply to patients with no birth date
// on file, which over-requests exams.
func Resolve(p Profile, rules []Rule) []string {
	tags := make(map[string]struct{}, len(p.Conditions))
	for _, c := range p.Conditions {
		tags[c] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string

	for _, r := range rules {
		if !genderMatches(r, p) || !ageMatches(r, p) || !conditionsMatch(r, tags) {
			continue
		}
		for _, exam := range r.Exams {
			if _, dup := seen[exam]; dup {
				continue
			}
			seen[exam] = struct{}{}
			out = append(out, exam)
		}
	}

	return out
}

func genderMatches(r Rule, p Profile) bool {
	return r.Gender == GenderAll || r.Gender == p.Gender
}

func ageMatches(r Rule, p Profile) bool {
	if r.AgeMin == nil && r.AgeMax == nil {
		return true
	}
	if p.Age == nil {
		return false
	}
	if r.AgeMin != nil && *p.Age < *r.AgeMin {
		return false
	}
	if r.AgeMax != nil && *p.Age > *r.AgeMax {
		return false
	}
	return true
}

func conditionsMatch(r Rule, tags map[string]struct{}) bool {
	if len(r.Conditions) == 0 {
		return true
	}
	for _, c := range r.Conditions {
		if _, ok := tags[c]; ok {
			return true
		}
	}
	return false
}
