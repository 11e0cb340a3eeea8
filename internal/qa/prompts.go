package qa

import "fmt"

// Generation parameters for answers.
const (
	answerMaxTokens   = 1000
	answerTemperature = 0.4
)

// noAnswerFallback replaces an empty or failed generation result.
const noAnswerFallback = "I'm unable to answer your question based on the available repository analysis. Could you please rephrase your question or be more specific?"

// answerSystemPrompt pins the generator to the supplied context. The
// numbered guidelines are the anti-hallucination contract: the model
// must never assert files beyond the Complete File Structure section.
const answerSystemPrompt = `You are an expert software engineer and code analyst. Your task is to answer questions about a repository based on the provided analysis and context.

Guidelines for answering:
1. ONLY answer based on the provided context - do not hallucinate or make assumptions
2. If file content is provided in the context, reference it directly and quote relevant sections
3. Be specific and accurate - reference exact file names, line numbers, and content when available
4. If you cannot answer based on the provided context, clearly state what information is missing
5. For README questions, quote the actual content from the README file if provided
6. For file structure questions, list ONLY the files shown in the "Complete File Structure" section
7. Use markdown formatting for clarity and code blocks for file content
8. When discussing code, provide relevant details like file locations, function signatures, etc.
9. If the question asks about file content that isn't provided, explain that the content analysis is limited
10. Never mention files that are not explicitly listed in the provided context

Remember: Your credibility depends on accuracy. Only state what you can verify from the provided repository analysis. Do not invent or assume the existence of files not shown in the context.`

func answerUserPrompt(contextText, question string) string {
	return fmt.Sprintf("Repository Context:\n%s\n\nQuestion: %s\n\nPlease provide an accurate answer based strictly on the repository analysis above. If file content is shown in the context, reference it directly. For file structure questions, only list the files explicitly shown in the 'Complete File Structure' section.", contextText, question)
}
