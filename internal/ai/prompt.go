package ai

import "github.com/yildizm/go-promptfmt"

// systemInstruction asks every provider for a single JSON verdict
const systemInstruction = `You are a forensic content analyst supporting academic integrity reviews.
Decide whether the content you are given was produced by an artificial intelligence
model or by a human. Reply with a single JSON object and nothing else:
{"isAiGenerated": true} if the content appears AI-generated,
{"isAiGenerated": false} if it appears to be of human origin.`

// verdictReply is the reply shape announced to the model
type verdictReply struct {
	IsAIGenerated bool `json:"isAiGenerated"`
}

// TextPrompt builds the prompt for a text passage
func TextPrompt(text string) *promptfmt.Prompt {
	return promptfmt.New().
		System(systemInstruction).
		User("Analyze the following text:\n\n%s", text).
		ExpectJSON(&verdictReply{}).
		Build()
}

// ImagePrompt builds the prompt that accompanies an inline image
func ImagePrompt() *promptfmt.Prompt {
	return promptfmt.New().
		System(systemInstruction).
		User("Analyze the attached image. Was it generated by an AI model?").
		ExpectJSON(&verdictReply{}).
		Build()
}
