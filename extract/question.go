package extract

import "github.com/chaitanya1705/mcqextract/reconcile"

// Question is the assembled record for one multiple-choice question: the
// stem from a question region followed by the option regions that trail it
// on the same page.
type Question struct {
	Number     int              `json:"number"`
	Page       int              `json:"page"`
	Text       string           `json:"text"`
	Options    []string         `json:"options"`
	Method     reconcile.Method `json:"method"`
	Confidence float64          `json:"confidence"`
	HasMath    bool             `json:"hasMath"`
}

// AssembleQuestions groups region outcomes into question records. Regions
// and outcomes run in parallel and in selection order: each question region
// opens a record, each option region that follows attaches to the most
// recent question on the same page. Option regions with no preceding
// question are dropped. The record's confidence is the weakest of its
// members; the math tag is set when any member carries it.
func AssembleQuestions(regions []Region, outcomes []reconcile.Outcome) []Question {
	var questions []Question
	var current *Question
	for i, region := range regions {
		if i >= len(outcomes) {
			break
		}
		out := outcomes[i]
		switch region.Kind {
		case KindQuestion:
			questions = append(questions, Question{
				Number:     len(questions) + 1,
				Page:       region.Page,
				Text:       out.Text,
				Method:     out.Method,
				Confidence: out.Confidence,
				HasMath:    out.HasMath,
			})
			current = &questions[len(questions)-1]
		case KindOption:
			if current == nil || current.Page != region.Page {
				continue
			}
			current.Options = append(current.Options, out.Text)
			if out.Confidence < current.Confidence {
				current.Confidence = out.Confidence
			}
			if out.HasMath {
				current.HasMath = true
			}
		}
	}
	return questions
}
