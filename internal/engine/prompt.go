package engine

// LLM prompt templates: data only, no logic.

// summaryPrompt summarizes one block of content. Used for single-pass and for
// every chunk of the map phase.
// Args: content.
const summaryPrompt = `Please provide a comprehensive summary of the following content:

%s

Summary should include:
- Main topics discussed
- Key points and important details
- Any conclusions or takeaways

Please make the summary clear, concise, and well-structured.`

// combinePrompt merges the partial summaries of the map phase.
// Args: partial summaries joined by blank lines.
const combinePrompt = `You are given multiple summaries of different parts of a video/document.
Please combine these summaries into one comprehensive summary.

Summaries to combine:
%s

Please create a unified summary that:
- Captures all main topics and themes
- Maintains logical flow and structure
- Eliminates redundancy while preserving important details
- Provides clear conclusions and takeaways`
