package analyses

import (
	"regexp"
	"strings"
)

// Rule feedback keys.
const (
	RuleLength      = "length"
	RuleContactInfo = "contact_info"
	RuleReadability = "readability"
)

const (
	msgTooLong      = "Resume is longer than the recommended 2 pages. Aim for 1 page if you have less than 10 years of experience."
	msgTwoPages     = "Resume is 2 pages long. This is acceptable for experienced professionals, but ensure all content is relevant."
	msgLengthOK     = "Resume length is good (1 page)."
	msgEmailFound   = "Email address found and appears valid."
	msgEmailMissing = "Could not find an email address. Ensure it's present and correctly formatted."
	msgPhoneFound   = "Phone number detected."
	msgPhoneMissing = "Could not find a phone number. Include a valid contact number with country code if applicable."
	msgLinkedIn     = "LinkedIn profile link found."
	msgGitHub       = "GitHub profile link found."
	msgDenseText    = "Some paragraphs are longer than 4 lines, which can be difficult to read. Consider using bullet points."

	maxParagraphLines = 4
)

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`\+?\d{1,3}?[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`)
	linkedInPattern = regexp.MustCompile(`(?i)(https?://)?(www\.)?linkedin\.com/(in|pub)/[A-Za-z0-9_-]+/?`)
	gitHubPattern   = regexp.MustCompile(`(?i)(https?://)?(www\.)?github\.com/[A-Za-z0-9_-]+/?`)
	blankLine       = regexp.MustCompile(`\n[ \t\r]*\n`)
)

// CheckRules runs the deterministic resume checks. It never fails; the
// readability key is present only when a dense paragraph was found.
func CheckRules(text string, pageCount int) map[string]string {
	feedback := make(map[string]string, 3)

	switch {
	case pageCount > 2:
		feedback[RuleLength] = msgTooLong
	case pageCount == 2:
		feedback[RuleLength] = msgTwoPages
	default:
		feedback[RuleLength] = msgLengthOK
	}

	contact := make([]string, 0, 4)
	if emailPattern.MatchString(text) {
		contact = append(contact, msgEmailFound)
	} else {
		contact = append(contact, msgEmailMissing)
	}
	if phonePattern.MatchString(text) {
		contact = append(contact, msgPhoneFound)
	} else {
		contact = append(contact, msgPhoneMissing)
	}
	if linkedInPattern.MatchString(text) {
		contact = append(contact, msgLinkedIn)
	}
	if gitHubPattern.MatchString(text) {
		contact = append(contact, msgGitHub)
	}
	feedback[RuleContactInfo] = strings.Join(contact, " ")

	if hasDenseParagraph(text) {
		feedback[RuleReadability] = msgDenseText
	}
	return feedback
}

func hasDenseParagraph(text string) bool {
	for _, para := range blankLine.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		lines := 0
		for _, line := range strings.Split(para, "\n") {
			if strings.TrimSpace(line) != "" {
				lines++
			}
		}
		if lines > maxParagraphLines {
			return true
		}
	}
	return false
}
