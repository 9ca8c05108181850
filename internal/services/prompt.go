package services

import (
	"fmt"
	"strings"
)

const DefaultResumeCharLimit = 3000

// SummaryTableHeader is the column layout the model is asked to produce.
var SummaryTableHeader = []string{
	"Rank", "Candidate", "Tech Skills", "Experience", "Education",
	"Communication", "Overall Fit", "Final Score",
}

// rankingTemplate takes the job description then the candidate blocks.
// Both are interpolated verbatim; no sanitisation is applied.
const rankingTemplate = `You are a senior recruiter.

A company is hiring for this role:
---
%s
---

You're given several resumes labeled Candidate 1, Candidate 2, etc.

For each candidate, evaluate on the following criteria:
1. **Technical Skills**
2. **Relevant Experience**
3. **Education Alignment**
4. **Communication and Presentation**
5. **Overall Fit for the Role**

For each parameter, give a score out of 10 with reasoning. Then compute a final average score and rank all candidates from best to worst.

Provide:
- Detailed analysis for each candidate.
- A final summary table:
| %s |

Now begin:
%s
`

type PromptBuilder struct {
	charLimit int
}

func NewPromptBuilder(charLimit int) *PromptBuilder {
	if charLimit <= 0 {
		charLimit = DefaultResumeCharLimit
	}
	return &PromptBuilder{charLimit: charLimit}
}

func (pb *PromptBuilder) CharLimit() int {
	return pb.charLimit
}

// BuildCandidateBlocks labels each résumé "Candidate N Resume:" in input
// order and joins the blocks with a blank line.
func (pb *PromptBuilder) BuildCandidateBlocks(texts []string) string {
	blocks := make([]string, 0, len(texts))
	for i, text := range texts {
		blocks = append(blocks, fmt.Sprintf("Candidate %d Resume:\n%s", i+1, TruncateText(text, pb.charLimit)))
	}
	return strings.Join(blocks, "\n\n")
}

// BuildRankingPrompt creates the single prompt sent to the completion endpoint.
func (pb *PromptBuilder) BuildRankingPrompt(texts []string, jobDescription string) string {
	return fmt.Sprintf(rankingTemplate,
		jobDescription,
		strings.Join(SummaryTableHeader, " | "),
		pb.BuildCandidateBlocks(texts),
	)
}

// TruncateText keeps the first limit characters. Truncation may cut a
// sentence in half.
func TruncateText(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
