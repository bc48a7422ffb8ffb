package gemini

import (
	"fmt"

	"github.com/tubeseo/tubeseo/internal/models"
)

func analyzeImagePrompt(lang models.Language) string {
	outputLang := string(lang)
	if lang == models.LanguageAuto || lang == "" {
		outputLang = "English (recommended for image generation)"
	}

	return fmt.Sprintf(`Analyze this image in detail.
Describe the visual style, lighting, composition, main subject, colors, and mood.
Create a text prompt that can be used to generate an image in a similar style.
Output ONLY the prompt string.
Language of output: %s.`, outputLang)
}

func titlesPrompt(topic string, lang models.Language) string {
	langInstruction := fmt.Sprintf("Output the titles in %s.", lang)
	if lang == models.LanguageAuto || lang == "" {
		langInstruction = "Detect the language of the video topic/idea. Output the titles in that same language."
	}

	return fmt.Sprintf(`You are a world-class YouTube SEO expert and copywriter.
Video topic/idea: %q.

Task:
Generate exactly 5 catchy, high-CTR (click-through rate) titles.
%s
Each title must have a "hook" (curiosity, urgency, benefit, shock, etc.) and be optimized for search intent.
For each title give the hook type and a predicted score from 0 to 100.

Return the response in JSON format.`, topic, langInstruction)
}

func detailsPrompt(title string, lang models.Language) string {
	langInstruction := fmt.Sprintf("Output the content (tips, description, hashtags, etc.) in %s.", lang)
	if lang == models.LanguageAuto || lang == "" {
		langInstruction = "Detect the language of the title and output the content in that same language."
	}

	return fmt.Sprintf(`You are a YouTube growth hacker.
The selected title for the video is: %q.

Task:
1. Generate a list of 10 relevant, trending hashtags (#).
2. Generate a list of 15 strong SEO keywords/tags strictly related to this title.
3. Provide 3 specific, actionable tips to rank this video #1 for this title.
4. Write a detailed visual prompt in English for a YouTube thumbnail.
5. Write a professional, SEO-optimized YouTube video description.
   It MUST include relevant emojis (🚀, 🎬, ✅, 👇, etc.) to be engaging.

Important: %s
(Keep the visual prompt in English regardless of the target language.)

Return the response in JSON format.`, title, langInstruction)
}

func scriptPrompt(title string, lang models.Language) string {
	langInstruction := fmt.Sprintf("Output the script in %s.", lang)
	if lang == models.LanguageAuto || lang == "" {
		langInstruction = "Detect the language of the title and output the script in that same language."
	}

	return fmt.Sprintf(`Create a structured YouTube video script for the title: %q.
%s

Structure:
1. Hook/intro (first 30 seconds to grab attention).
2. Main content (key points as an array of strings).
3. Call to action (outro).

Return JSON.`, title, langInstruction)
}
