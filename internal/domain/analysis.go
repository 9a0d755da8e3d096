package domain

// Categories groups canonical labels by taxonomy dimension.
type Categories struct {
	Format    []string `json:"format"`
	Cognitive []string `json:"cognitive"`
	Emotional []string `json:"emotional"`
}

// AnalysisMeta records how an analysis result was produced. Fallback is true
// whenever no live provider parse was used; Reason then explains why.
type AnalysisMeta struct {
	Provider     string `json:"provider"`
	Fallback     bool   `json:"fallback"`
	Attempt      string `json:"attempt,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Raw          string `json:"raw,omitempty"`
}

// AnalysisResult is the outcome of classifying a meme. Summary is always
// non-empty and Tags holds at most three unique entries.
type AnalysisResult struct {
	Summary    string       `json:"summary"`
	Tags       []string     `json:"tags"`
	Categories Categories   `json:"categories"`
	Meta       AnalysisMeta `json:"meta"`
}

// RemixResult carries an AI-edited image as a data URI. EditedImageURL is
// always a well-formed data:<mime>;base64,<payload> string.
type RemixResult struct {
	EditedImageURL string `json:"editedImageUrl"`
}
