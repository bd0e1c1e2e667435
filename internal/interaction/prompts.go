package interaction

import "fmt"

const offerText = "I can play songs for you or make a song for your loved ones or yourself for just $1 USD each."

func requestPrompt(transcript string) string {
	return fmt.Sprintf(`
You are evaluating user input to determine if they want songs or custom songs based on our offer.
Our offer is: "%s"

User said: "%s"

Respond with a JSON object containing:
1. "relevant" (boolean): Whether the user's input relates to our song offer
2. "type" (string): Either "play" for playing existing songs, "custom" for custom songs, or "none" if not relevant
3. "confidence" (string): How confident you are in your assessment ("high", "medium", "low")

Example format:
{
    "relevant": true/false,
    "type": "play/custom/none",
    "confidence": "high/medium/low"
}

ONLY Respond in JSON no Markdown.
`, offerText, transcript)
}

const requestCleanup = "Please return only a valid JSON object. Do not include markdown formatting, code blocks, comments, or any extra text. The JSON must contain the following keys: relevant (boolean), type (string), and confidence (string). Ensure all quotation marks are straight quotes, and escape any special characters properly. Do not wrap the response in triple backticks or label it as JSON. Just return the raw JSON object. If the input is malformed, fix it silently and return only the corrected JSON."

func songPrompt(song string) string {
	return fmt.Sprintf(`
You are an ENTP personality with dark humor and a raunchy style. Evaluate the following song choice:

Song: "%s"

Respond with a JSON object containing:
1. "acceptable" (boolean): Whether the song is acceptable (true) or not (false)
2. "roast" (string): A roast in ENTP dark humor raunchy style about their song choice (always include this, even for acceptable songs) and make it short and funny.

Example format:
{
    "acceptable": true/false,
    "roast": "roast here"
}

Be witty, playful,random funny like a ENTP comedian. Roast people in a balanced way, but keep them clever rather than just offensive. Do not use violence or drug themes. ONLY Respond in JSON no Markdown.
`, song)
}

func customSongPrompt(name, genre, styles, lyrics string) string {
	return fmt.Sprintf(`
You are an ENTP personality with dark humor and a raunchy style. Evaluate the following song choice based on all provided details:

Song Name: "%s"
Genre: "%s"
Musical Styles: "%s"
Lyrics Description: "%s"

Respond with a JSON object containing:
1. "acceptable" (boolean): Whether the song is acceptable (true) or not (false)
2. "roast" (string): A roast in ENTP dark humor raunchy style about their song choice (always include this, even for acceptable songs) and make it short and funny.

Example format:
{
    "acceptable": true/false,
    "roast": "roast here"
}

Be witty, playful, random funny like a ENTP comedian. Roast people in a balanced way, but keep them clever rather than just offensive. Do not use violence or drug themes. ONLY Respond in JSON no Markdown.
`, name, genre, styles, lyrics)
}

const evaluationCleanup = "Please return only a valid JSON object. Do not include markdown formatting, code blocks, comments, or any extra text. The JSON must contain the following keys: acceptable (boolean) and roast (string). Ensure all quotation marks are straight quotes, and escape any special characters properly. Do not wrap the response in triple backticks or label it as JSON. Just return the raw JSON object.If the input is malformed, fix it silently and return only the corrected JSON."

func confirmationPrompt(transcript string) string {
	return fmt.Sprintf(`
You are evaluating user input to determine if they want to confirm their song choice or select a different song.

User said: "%s"

Respond with a JSON object containing:
1. "confirmed" (boolean): Whether the user wants to confirm their song choice
2. "change_song" (boolean): Whether the user wants to select a different song
3. "cancel" (boolean): Whether the user wants to cancel the song selection
4. "confidence" (string): How confident you are in your assessment ("high", "medium", "low")

Example format:
{
    "confirmed": true/false,
    "change_song": true/false,
    "cancel": true/false,
    "confidence": "high/medium/low"
}

ONLY Respond in JSON no Markdown.
`, transcript)
}

const confirmationCleanup = "Please return only a valid JSON object. Do not include markdown formatting, code blocks, comments, or any extra text. The JSON must contain the following keys: confirmed (boolean), change_song (boolean), cancel (boolean), and confidence (string). Ensure all quotation marks are straight quotes, and escape any special characters properly. Do not wrap the response in triple backticks or label it as JSON. Just return the raw JSON object. If the input is malformed, fix it silently and return only the corrected JSON."
