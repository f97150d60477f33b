package domain

import "sort"

// Catalog is the validated, ordered question set grouped into wizard pages.
type Catalog struct {
	Questions []Question
	Groups    []CategoryGroup
}

var validTypes = map[string]bool{
	TypeSingleChoice:  true,
	TypeSeverityScale: true,
	TypeTextInput:     true,
	TypeEmailInput:    true,
	TypeCheckbox:      true,
}

// ValidQuestion reports whether a question is structurally usable:
// non-empty id/type/text, a known type, and at least one option when
// single-choice.
func ValidQuestion(q Question) bool {
	if q.ID == "" || q.Type == "" || q.Text == "" {
		return false
	}
	if !validTypes[q.Type] {
		return false
	}
	if q.Type == TypeSingleChoice && len(q.Options) == 0 {
		return false
	}
	return true
}

// BuildCatalog filters out invalid questions, sorts ascending by order, and
// groups by category preserving that order across pages. Category metadata
// missing from info falls back to the bare category key.
func BuildCatalog(questions []Question, info map[string]CategoryInfo) Catalog {
	valid := make([]Question, 0, len(questions))
	for _, q := range questions {
		if ValidQuestion(q) {
			valid = append(valid, q)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Order < valid[j].Order })

	var groups []CategoryGroup
	index := map[string]int{}
	for _, q := range valid {
		i, ok := index[q.Category]
		if !ok {
			meta, found := info[q.Category]
			if !found {
				meta = CategoryInfo{Key: q.Category, Title: q.Category}
			} else {
				meta.Key = q.Category
			}
			i = len(groups)
			index[q.Category] = i
			groups = append(groups, CategoryGroup{Info: meta})
		}
		groups[i].Questions = append(groups[i].Questions, q)
	}
	return Catalog{Questions: valid, Groups: groups}
}

// ScoringQuestions returns the severity-scale questions in catalog order.
func (c Catalog) ScoringQuestions() []Question {
	var out []Question
	for _, q := range c.Questions {
		if q.Type == TypeSeverityScale {
			out = append(out, q)
		}
	}
	return out
}

// QuestionByID looks a question up by identifier.
func (c Catalog) QuestionByID(id string) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
