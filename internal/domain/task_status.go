package domain

// TaskStatus is the per-account, per-day completion snapshot for the
// three daily tasks. It is recomputed from the platform on every run
// and never persisted locally; the platform stays authoritative.
type TaskStatus struct {
	SignCompleted     bool `json:"sign_completed"`
	ViewCompleted     bool `json:"view_completed"`
	QuestionCompleted bool `json:"question_completed"`
}

// IsAllCompleted reports whether every daily task is done.
func (s TaskStatus) IsAllCompleted() bool {
	return s.SignCompleted && s.ViewCompleted && s.QuestionCompleted
}
