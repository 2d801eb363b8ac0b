package generation

// Config holds generation settings.
type Config struct {
	QuestionsMaxTokens  int
	SolutionMaxTokens   int
	StepGameMaxTokens   int
	CurriculumMaxTokens int
	LessonMaxTokens     int
	EvaluateMaxTokens   int
	Temperature         float64
}

// DefaultConfig returns sensible defaults for generation.
func DefaultConfig() Config {
	return Config{
		QuestionsMaxTokens:  2048,
		SolutionMaxTokens:   4096,
		StepGameMaxTokens:   2048,
		CurriculumMaxTokens: 512,
		LessonMaxTokens:     1536,
		EvaluateMaxTokens:   768,
		Temperature:         0.4,
	}
}
