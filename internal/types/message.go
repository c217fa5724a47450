package types

// GenerationRequest is the unit of work handed to the prompt composer.
// PreviousMessage and Feedback are empty on a first generation.
type GenerationRequest struct {
	Diff            string
	Template        string
	History         string
	PreviousMessage string
	Feedback        string
}

// CommitMessage is the structured reply of the model. Thought is shown to
// the operator but never committed.
type CommitMessage struct {
	Thought string `json:"thought"`
	Content string `json:"content"`
}
