package ai

import "strings"

// Words left lowercase inside a title unless first or last.
var smallTitleWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "for": true, "if": true, "in": true,
	"nor": true, "of": true, "on": true, "or": true, "so": true,
	"the": true, "to": true, "up": true, "yet": true,
}

// fallbackEnhancedContent produces a deterministic enhancement when the
// provider is rate limited, so the editor flow keeps working.
func fallbackEnhancedContent(title, description string, platforms []string) *EnhancedContent {
	enhancedTitle := "Engaging Content for Your Professional Network"
	if len(strings.TrimSpace(title)) > 5 {
		enhancedTitle = titleCase(title)
	}

	enhancedDescription := description
	if !strings.Contains(description, "professionals") && !strings.Contains(description, "industry") {
		enhancedDescription = strings.TrimSpace(description) +
			" This insight is valuable for professionals in our industry looking to improve their practices."
	}

	hashtags := []string{"#Business", "#Professional", "#Growth", "#Success", "#Insights"}
	for _, p := range platforms {
		if p == "LinkedIn" {
			hashtags = []string{"#ProfessionalDevelopment", "#BusinessInsights", "#IndustryTrends", "#Leadership", "#Innovation"}
			break
		}
	}

	return &EnhancedContent{
		Title:       enhancedTitle,
		Description: enhancedDescription,
		Hashtags:    hashtags,
	}
}

// titleCase capitalizes words except small connective words, always
// capitalizing the first and last word.
func titleCase(text string) string {
	words := strings.Fields(strings.TrimSpace(text))
	for i, word := range words {
		lower := strings.ToLower(word)
		if i != 0 && i != len(words)-1 && smallTitleWords[lower] {
			words[i] = lower
			continue
		}
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}
