package prompt

import "strings"

// emojiRanges are the code point ranges stripped from comment text before it
// is substituted into the prompt. Accented letters and punctuation sit below
// every range and pass through untouched.
var emojiRanges = [...][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F680, 0x1F6FF}, // transport & map symbols
	{0x1F1E0, 0x1F1FF}, // flags
	{0x2702, 0x27B0},   // dingbats
	{0x24C2, 0x1F251},  // enclosed characters
}

// StripEmoji removes emoji and pictograph runes from s. Idempotent.
func StripEmoji(s string) string {
	return strings.Map(func(r rune) rune {
		for _, rg := range emojiRanges {
			if r >= rg[0] && r <= rg[1] {
				return -1
			}
		}
		return r
	}, s)
}

var quoteStripper = strings.NewReplacer(`"`, "", "'", "")

// SanitizeReply strips quote characters from a generated reply before it is
// published.
func SanitizeReply(s string) string {
	return quoteStripper.Replace(s)
}
