package analysis

import (
	"fmt"
	"path/filepath"

	"github.com/actlog-project/actlog/pkg/model"
)

// Model output past this many characters of file content adds little
// signal and slows local inference.
const maxSnippet = 500

const systemPrompt = `You are an expert code analyst specializing in understanding code logic, patterns, and developer intent, with a focus on security risk.

Analyze the presented change and answer with:
1. A brief analysis (3-4 sentences max): purpose of the code, notable patterns, and what the change suggests about the developer's activity.
2. On the final line, exactly one JSON object of the form
   {"risk_level": "Critical"|"High"|"Medium"|"Low", "confidence": 0.0-1.0, "rationale": "one sentence"}
rating the security risk of the code content.`

func buildMessages(data model.FileEventData) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(data)},
	}
}

func userPrompt(data model.FileEventData) string {
	name := filepath.Base(data.Path)

	if data.Type == model.FileDeleted {
		return fmt.Sprintf(`FILE DELETED:

File: %s
Path: %s

What cleanup or refactoring activity does this deletion suggest, and what risk does removing this file carry?`,
			name, data.Path)
	}

	verb := "CREATED"
	if data.Type == model.FileModified {
		verb = "MODIFIED"
	}
	return fmt.Sprintf(`CODE FILE %s:

File: %s
Path: %s
Type: %s

Code content (first %d chars):
`+"```"+`
%s
`+"```"+`

Explain what this code does, what patterns it uses, and rate its security risk.`,
		verb, name, data.Path, filepath.Ext(data.Path), maxSnippet, snippet(data.Content))
}

func snippet(content string) string {
	if len(content) <= maxSnippet {
		return content
	}
	return content[:maxSnippet]
}
