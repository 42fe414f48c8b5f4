package grading

// Grade is the letter grade assigned to a score.
type Grade string

const (
	GradeA    Grade = "A"
	GradeB    Grade = "B"
	GradeC    Grade = "C"
	GradeFail Grade = "Fail"
)

// ScoreRequest is the parsed input of a single grading request.
type ScoreRequest struct {
	Name  string
	Score int
}

// GradeResult is the response payload for a graded request.
type GradeResult struct {
	Name  string `json:"name"`
	Grade Grade  `json:"grade"`
}

func (g Grade) String() string {
	return string(g)
}

// Classify maps a score onto its grade. Ranges are evaluated in order and
// never overlap.
func Classify(score int) Grade {
	switch {
	case score >= 80 && score <= 100:
		return GradeA
	case score >= 60 && score < 80:
		return GradeB
	case score >= 40 && score < 60:
		return GradeC
	default:
		return GradeFail
	}
}

// Evaluate grades a request. The name passes through unchanged.
func Evaluate(req ScoreRequest) GradeResult {
	return GradeResult{
		Name:  req.Name,
		Grade: Classify(req.Score),
	}
}
