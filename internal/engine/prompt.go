package engine

// LLM prompt templates. Data only, no logic.

// clipScriptSystem is the system message for clip script generation.
const clipScriptSystem = `You are a helpful assistant that generates concise video clips based on transcriptions.`

// clipScriptPrompt asks for a short clip script.
// Args: normalized transcript.
const clipScriptPrompt = `Generate a short, engaging clip based on this transcription.
Output ONLY the clip script as plain text: no markdown, no headings, no preamble.
Keep it under 120 words and in the SAME LANGUAGE as the transcription.

Transcription:
%s`
