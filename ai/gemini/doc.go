// Package gemini implements ai.AIProvider on the Google Gemini API
// (google.golang.org/genai). Unlike the openai backend it accepts walkthrough
// videos as inline media, so every source kind can be extracted.
package gemini
