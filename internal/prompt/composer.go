// Package prompt assembles the chat messages sent to the writing models.
// Composition is pure: the same input always yields the same messages.
package prompt

import (
	"errors"
	"fmt"

	"github.com/everyonewrite/writeguide/internal/llm"
)

var ErrMissingInput = errors.New("either a writing attempt or a reference expression is required")

const systemPersona = "You are a patient writing coach for language learners. " +
	"Give concrete, encouraging feedback on grammar, word choice and natural phrasing, " +
	"and answer in the learner's native language."

// Input carries the user-facing fields after any translation has already
// happened: ReferenceText is the translated reference expression.
type Input struct {
	UserAttempt      string
	ReferenceText    string
	NativeLanguage   string
	LearningLanguage string
}

// Compose selects one of three templates depending on which of the attempt
// and the reference text are present.
func Compose(in Input) ([]llm.Message, error) {
	var instruction string
	switch {
	case in.UserAttempt != "" && in.ReferenceText != "":
		instruction = fmt.Sprintf(
			"The learner's native language is %s and they are learning %s.\n"+
				"They tried to write:\n%s\n\n"+
				"A reference expression in %s is:\n%s\n\n"+
				"Compare the attempt with the reference, point out the differences and explain how to close the gap.",
			in.NativeLanguage, in.LearningLanguage, in.UserAttempt, in.LearningLanguage, in.ReferenceText)
	case in.UserAttempt != "":
		instruction = fmt.Sprintf(
			"The learner's native language is %s and they are learning %s.\n"+
				"They wrote:\n%s\n\n"+
				"Give direct feedback on this attempt and suggest a more natural version.",
			in.NativeLanguage, in.LearningLanguage, in.UserAttempt)
	case in.ReferenceText != "":
		instruction = fmt.Sprintf(
			"The learner's native language is %s and they are learning %s.\n"+
				"Here is an expression in %s:\n%s\n\n"+
				"Explain its structure, vocabulary and usage so the learner can write sentences like it.",
			in.NativeLanguage, in.LearningLanguage, in.LearningLanguage, in.ReferenceText)
	default:
		return nil, ErrMissingInput
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPersona},
		{Role: llm.RoleUser, Content: instruction},
	}, nil
}
