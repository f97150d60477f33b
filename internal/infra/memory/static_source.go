package memory

import (
	"context"

	"symptom-quiz-service/internal/domain"
)

// StaticQuestionSource serves the built-in question list. It is the fallback
// when no remote catalog is configured or the remote one comes back empty.
type StaticQuestionSource struct {
	questions []domain.Question
}

func NewStaticQuestionSource(questions []domain.Question) *StaticQuestionSource {
	return &StaticQuestionSource{questions: questions}
}

// NewBuiltinQuestionSource serves the default intake catalog.
func NewBuiltinQuestionSource() *StaticQuestionSource {
	return &StaticQuestionSource{questions: BuiltinQuestions()}
}

func (s *StaticQuestionSource) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

// BuiltinCategoryInfo returns the display metadata for the built-in sections.
func BuiltinCategoryInfo() map[string]domain.CategoryInfo {
	return map[string]domain.CategoryInfo{
		"demographics": {Title: "About You", Description: "Help us understand your location and allergy patterns"},
		"nasal":        {Title: "Nasal Symptoms", Description: "How would you rate the following nasal symptoms?"},
		"eye":          {Title: "Eye Symptoms", Description: "How would you rate the following eye symptoms?"},
		"respiratory":  {Title: "Respiratory Symptoms", Description: "How would you rate the following respiratory symptoms?"},
		"skin":         {Title: "Skin Symptoms", Description: "How would you rate the following skin symptoms?"},
		"throat":       {Title: "Throat & Mouth Symptoms", Description: "How would you rate the following throat and mouth symptoms?"},
		"contact":      {Title: "Contact Information", Description: "We need your information to provide personalized recommendations"},
	}
}

func severityQuestion(id, text, category string, order int) domain.Question {
	return domain.Question{
		ID:       id,
		Type:     domain.TypeSeverityScale,
		Text:     text,
		Category: category,
		Order:    order,
		Required: true,
	}
}

// BuiltinQuestions returns the full default catalog: demographics, five
// symptom sections on the 0-3 severity scale, timing patterns, and contact.
func BuiltinQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       "region",
			Type:     domain.TypeSingleChoice,
			Text:     "Where do you live most of the year?",
			Subtitle: "Our Regional Allergy Drops are formulated to specific areas of the United States.",
			Category: "demographics",
			Order:    10,
			Required: true,
			Options: []domain.Option{
				{Value: "northwest", Label: "Northwest"},
				{Value: "southwest", Label: "Southwest"},
				{Value: "north_central", Label: "North Central"},
				{Value: "south_central", Label: "South Central"},
				{Value: "midwest", Label: "Midwest"},
				{Value: "southeast", Label: "Southeast"},
				{Value: "northeast", Label: "Northeast"},
			},
		},

		severityQuestion("nasal_runny", "Runny Nose", "nasal", 20),
		severityQuestion("nasal_stuffy", "Stuffy/Congested Nose", "nasal", 21),
		severityQuestion("nasal_sneezing", "Sneezing", "nasal", 22),
		severityQuestion("nasal_postnasal", "Postnasal Drip", "nasal", 23),
		severityQuestion("nasal_smell_loss", "Loss of Smell", "nasal", 24),

		severityQuestion("eye_watery", "Watery Eyes", "eye", 30),
		severityQuestion("eye_itchy", "Itchy Eyes", "eye", 31),
		severityQuestion("eye_red", "Red/Bloodshot Eyes", "eye", 32),
		severityQuestion("eye_swollen", "Swollen Eyelids", "eye", 33),

		severityQuestion("respiratory_cough", "Cough", "respiratory", 40),
		severityQuestion("respiratory_wheeze", "Wheezing", "respiratory", 41),
		severityQuestion("respiratory_tight", "Chest Tightness", "respiratory", 42),
		severityQuestion("respiratory_breath", "Shortness of Breath", "respiratory", 43),

		severityQuestion("skin_rash", "Rash", "skin", 50),
		severityQuestion("skin_hives", "Hives", "skin", 51),
		severityQuestion("skin_itching", "Itching", "skin", 52),
		severityQuestion("skin_eczema", "Eczema/Dry Patches", "skin", 53),

		severityQuestion("throat_itchy", "Itchy Throat", "throat", 60),
		severityQuestion("throat_sore", "Sore Throat", "throat", 61),
		severityQuestion("throat_mouth_itchy", "Itchy Mouth or Tongue", "throat", 62),

		{
			ID:       "timing_seasonal",
			Type:     domain.TypeSingleChoice,
			Text:     "When do your allergy symptoms usually flare up?",
			Subtitle: "This helps us understand your allergy pattern.",
			Category: "demographics",
			Order:    70,
			Required: true,
			Options: []domain.Option{
				{Value: "spring", Label: "Primarily Spring (March-May)"},
				{Value: "summer", Label: "Primarily Summer (June-August)"},
				{Value: "fall", Label: "Primarily Fall (September-November)"},
				{Value: "winter", Label: "Primarily Winter (December-February)"},
				{Value: "year_round", Label: "Year-Round"},
				{Value: "multiple_seasons", Label: "Multiple Seasons"},
			},
		},
		{
			ID:       "timing_duration",
			Type:     domain.TypeSingleChoice,
			Text:     "How long have you been experiencing allergy symptoms?",
			Category: "demographics",
			Order:    71,
			Required: true,
			Options: []domain.Option{
				{Value: "less_than_1yr", Label: "Less than 1 year"},
				{Value: "1_3yrs", Label: "1-3 years"},
				{Value: "3_5yrs", Label: "3-5 years"},
				{Value: "5_10yrs", Label: "5-10 years"},
				{Value: "over_10yrs", Label: "More than 10 years"},
			},
		},

		{
			ID:          "customer_name",
			Type:        domain.TypeTextInput,
			Text:        "Your Full Name",
			Category:    "contact",
			Order:       80,
			Required:    true,
			Placeholder: "John Smith",
		},
		{
			ID:          "customer_email",
			Type:        domain.TypeEmailInput,
			Text:        "Your Email Address",
			Category:    "contact",
			Order:       81,
			Required:    true,
			Placeholder: "john.smith@example.com",
		},
		{
			ID:       "consent",
			Type:     domain.TypeCheckbox,
			Text:     "I consent to storing my symptom information for product recommendation purposes. I understand this assessment does not constitute medical advice and does not replace consultation with a healthcare provider.",
			Category: "contact",
			Order:    82,
			Required: true,
		},
	}
}
