package explain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// SystemPrompt is sent as the system message of every request.
const SystemPrompt = "You are Grok, a gambling behavior analyst."

const promptTemplate = `You are an expert in spotting gambling patterns, talking to your customer services colleagues.
I've already calculated a score for this user: %d (0 means a sharp, pro bettor; 100 means a casual, everyday punter).
Based on this score and the user data below, explain in a simple, human-friendly way why this user got this score.
Keep it short, clear, and easy to read, avoiding overly techy terms or long lists.
Your explanation will help a customer service rep decide next steps for this user.

Sharp bettors (closer to 0) tend to:
- Hide their tracks (e.g., headless browsers, no cookies)
- Load pages super fast (under 200ms)
- Use powerful gear (lots of CPU cores and memory)
- Barely interact (few clicks or scrolls)
- Stick to the same setup consistently
- Use datacenter IPs (like pros hiding their location)

Casual punters (closer to 100) tend to:
- Browse normally (no hiding, cookies on)
- Load pages at average speed (over 300ms)
- Use regular home computers
- Click and scroll a lot
- Change setups often
- Use home internet

User Data:
%s

Give your answer as a reason that is no longer than 4 to 5 sentences.
`

// BuildPrompt renders the user prompt for score with one JSON line per record.
func BuildPrompt(score int, records []fingerprint.Record) string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		lines = append(lines, string(b))
	}
	return fmt.Sprintf(promptTemplate, score, strings.Join(lines, "\n"))
}
