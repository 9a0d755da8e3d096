package prompts

// AnalysisSystemPrompt defines the role for meme classification.
const AnalysisSystemPrompt = "You are Meme Lab's humor scientist. Analyze memes with playful, precise language and respond in JSON."

// AnalysisInstructions is the base instruction block sent with every
// classification attempt. The meme title, when available, is appended as an
// extra line.
var AnalysisInstructions = []string{
	"Analyze the provided meme image.",
	"Reply with two lines only:",
	"Summary: <three concise sentences (<=100 words)>",
	"Tags: <up to 3 short descriptors separated by commas>",
}

// AnalysisStrictJSONInstruction is appended on the fallback-json attempt to
// force a machine-parsable reply.
const AnalysisStrictJSONInstruction = `Respond ONLY with a JSON object: {"summary": "...", "tags": ["tag1", "tag2"]}`

// RemixInstructionPrefix frames the user's remix instructions for the image
// generation model.
const RemixInstructionPrefix = "Remix this meme while keeping it shareable and fun. Instructions: "
