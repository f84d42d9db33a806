package session

import "errors"

var (
	// ErrIncompleteCandidate is returned by StartInterview when name,
	// email or phone is missing.
	ErrIncompleteCandidate = errors.New("session: candidate name, email and phone are required")

	// ErrInvalidTransition is matched by every *TransitionError.
	ErrInvalidTransition = errors.New("session: invalid transition")

	// ErrNoResumable is returned by ResumeFromPointer when nothing was saved.
	ErrNoResumable = errors.New("session: no resumable session")

	// ErrResumableTaken is returned when parking would overwrite another
	// candidate's saved interview.
	ErrResumableTaken = errors.New("session: resumable slot holds another candidate")

	// ErrQuestionNotFound is returned when a question id does not exist.
	ErrQuestionNotFound = errors.New("session: question not found")
)
