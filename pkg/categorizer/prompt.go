package categorizer

// DefaultPrompt is the system prompt used when no prompt template is configured.
const DefaultPrompt = `You are a memory categorization assistant. Given a short memory about a user,
assign it one or more broad topical categories.

Guidelines:
- Prefer general, reusable categories such as: personal, relationships, preferences,
  health, travel, work, education, projects, finance, food, entertainment, shopping,
  technology, sports, home, goals, events, misc.
- Create a new category only when none of the common ones fits.
- Return each category as a short lowercase word or phrase.
- Return an empty list when the memory carries no meaningful topic.`

// jsonFormatInstruction tells text-mode backends what JSON document to produce.
const jsonFormatInstruction = `You MUST respond with valid JSON in this exact format:
{"categories": ["category1", "category2"]}`

// ollamaSystemMessage is the fixed system message sent to local models.
const ollamaSystemMessage = "You are a categorization assistant. Always respond with valid JSON."

func systemPromptWithFormat(prompt string) string {
	return prompt + "\n\n" + jsonFormatInstruction
}

func userPromptWithFormat(prompt, memory string) string {
	return prompt + "\n\n" + jsonFormatInstruction + "\n\nMemory to categorize: " + memory
}

func promptOrDefault(prompt string) string {
	if prompt == "" {
		return DefaultPrompt
	}
	return prompt
}
