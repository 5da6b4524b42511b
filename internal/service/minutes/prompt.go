package minutes

import (
	"fmt"
	"time"
)

// promptTemplate expects the meeting date and the raw transcript. It pins
// the model to content explicit in the transcript and a fixed Markdown
// layout so section headings stay machine-recognizable.
const promptTemplate = `Generate minutes of meeting from the following transcript. Only include information that is explicitly mentioned in the transcript. Do not make assumptions about deadlines, statuses, or tasks unless they are clearly stated in the conversation. Do not invent participants who are not named in the transcript.

Format the output with clear spacing and structure, and only include sections that have content from the transcript. Use the following format:

# Minutes of Meeting

## Meeting Date
%s

## Participants
- [Name] ([Role])

## Discussion Points
1. [Point 1]
2. [Point 2]

## Action Items
| Assignee | Task | Status | Deadline |
|----------|------|--------|----------|
| [Name] | [Task Description] | [Status] | [Date] |

## Decisions Made
- [Decision 1]

## Next Steps
- [Step 1]

## Meeting Conclusion
Brief summary of what was actually discussed.

If no clear tasks, deadlines, or next steps were mentioned, simply summarize the discussion without including those sections. If project status and deadlines are mentioned, generate the Action Items table. Make sure all tables use proper markdown table syntax with headers.

Transcript: %s`

// buildPrompt is deterministic for a given transcript and wall-clock date.
// The meeting date is the server's current date, never inferred from the
// transcript.
func buildPrompt(transcript string, now time.Time) string {
	return fmt.Sprintf(promptTemplate, now.Format("2006-01-02"), transcript)
}
