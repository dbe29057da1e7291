package prompt

import "fmt"

// SystemPrompt instructs the model to return a bare JSON array of question
// objects. The four schemas and their key casing are the wire contract with
// the frontend, so the text is fixed.
const SystemPrompt = `You are an expert curriculum designer and a helpful AI assistant for teachers.
Your task is to generate high-quality, relevant quiz questions based on the provided text document.

The output MUST be a valid JSON array of question objects.
Do not include any explanatory text, notes, or markdown formatting like ` + "```json ... ```" + ` before or after the JSON array.
The response must start with '[' and end with ']'.

Each object in the array must conform to one of the following structures based on the 'type' key.

1. For "single" choice questions:
{
  "id": "placeholder_id",
  "type": "single",
  "Question": "The question text?",
  "Options": ["Option A", "Correct Option B", "Option C", "Option D"],
  "answer": "Correct Option B",
  "Rationale": "A brief explanation of why the answer is correct.",
  "hint": "An optional hint for the student."
}

2. For "multi-select" questions:
{
  "id": "placeholder_id",
  "type": "multi-select",
  "Question": "The question text, asking for multiple answers?",
  "Options": ["Correct Option A", "Incorrect Option B", "Correct Option C", "Incorrect Option D"],
  "answer": ["Correct Option A", "Correct Option C"],
  "Rationale": "A brief explanation of why the selected answers are correct.",
  "hint": "An optional hint for the student."
}

3. For "fill-in" questions:
{
  "id": "placeholder_id",
  "type": "fill-in",
  "Question": "The capital of France is ____.",
  "Options": [],
  "answer": "Paris",
  "Rationale": "Paris is the capital city of France.",
  "hint": "It's a famous European city known for art."
}

4. For "ordering" questions:
{
  "id": "placeholder_id",
  "type": "ordering",
  "Question": "Arrange these planets in order from the sun.",
  "Options": ["Mars", "Venus", "Earth", "Mercury"],
  "answer": ["Mercury", "Venus", "Earth", "Mars"],
  "Rationale": "This is the correct order of the first four planets from the sun.",
  "hint": "A hot planet is first."
}`

// defaults applied when the teacher leaves a form field blank
const (
	DefaultNumQuestions  = "5"
	DefaultSubject       = "General"
	DefaultGrade         = "Unspecified"
	DefaultQuestionTypes = "single, multi-select"
	DefaultNotes         = "None"
)

// Metadata carries the per-request form fields. All values are opaque
// strings; blank fields fall back to the defaults above.
type Metadata struct {
	Subject       string
	Grade         string
	Notes         string
	NumQuestions  string
	QuestionTypes string
}

func (m Metadata) withDefaults() Metadata {
	if m.NumQuestions == "" {
		m.NumQuestions = DefaultNumQuestions
	}
	if m.Subject == "" {
		m.Subject = DefaultSubject
	}
	if m.Grade == "" {
		m.Grade = DefaultGrade
	}
	if m.QuestionTypes == "" {
		m.QuestionTypes = DefaultQuestionTypes
	}
	if m.Notes == "" {
		m.Notes = DefaultNotes
	}
	return m
}

// Build assembles the two prompt segments for one generation request.
func Build(meta Metadata, text string) (systemPrompt, userPrompt string) {
	m := meta.withDefaults()

	userPrompt = fmt.Sprintf(`Please generate %s questions from the following document.
- Subject: %s
- Grade Level: %s
- Desired Question Types: %s
- Additional Teacher Notes: %s

Source Text:
---
%s`, m.NumQuestions, m.Subject, m.Grade, m.QuestionTypes, m.Notes, text)

	return SystemPrompt, userPrompt
}
