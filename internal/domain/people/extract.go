package people

import (
	"regexp"
	"strings"
)

// Terms is the per-query set of extracted filter values. Each field is
// independently optional; the zero value means "match everything".
// Constructed fresh per query and discarded after predicate building.
type Terms struct {
	Name     string
	Email    string
	Company  string
	Title    string
	Location string
	Phone    string
}

// IsZero reports whether no field was extracted.
func (t Terms) IsZero() bool {
	return t == Terms{}
}

// ImageIntent short-circuits field extraction: the query is asking about a
// stored image rather than person fields. Query carries the lowercased
// original text.
type ImageIntent struct {
	Query string
}

// Extraction is the result of Extract: either an image intent or search terms.
type Extraction struct {
	Image *ImageIntent
	Terms Terms
}

var (
	imageWords = []string{"image", "photo", "picture"}

	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// Trigger-phrase matchers capture exactly one token after the trigger,
	// terminated by whitespace or punctuation ("works at Tech Corp" yields
	// "tech"). Single-token capture is the documented behavior.
	companyRe  = regexp.MustCompile(`\b(?:works at|from company)\s+([^\s,.!?;:]+)`)
	titleRe    = regexp.MustCompile(`\b(?:title|position|role)\s+(?:is\s+)?([^\s,.!?;:]+)`)
	locationRe = regexp.MustCompile(`\b(?:from|in|location)\s+([^\s,.!?;:]+)`)

	stopPhraseRe = regexp.MustCompile(`(?i)\b(?:look for|who is|tell me about|person named|find|search|called)\b`)
)

// Extract decomposes a raw query string into search terms, or an image
// intent when the query contains image vocabulary. It runs an ordered
// pipeline of independent matchers; the only cross-field policy is the name
// fallback, which fires only when no other field matched. Extract never
// fails: the worst case is an all-empty Terms, which the predicate builder
// treats as "match everything, bounded by the caller's limit".
func Extract(query string) Extraction {
	lower := strings.ToLower(query)

	for _, w := range imageWords {
		if strings.Contains(lower, w) {
			return Extraction{Image: &ImageIntent{Query: lower}}
		}
	}

	var t Terms
	t.Email = matchEmail(query)
	t.Phone = matchPhone(query)
	t.Company = matchCompany(lower)
	t.Title = matchTitle(lower)
	t.Location = matchLocation(lower)

	if t.IsZero() {
		t.Name = fallbackName(query)
	}

	return Extraction{Terms: t}
}

// matchEmail finds an email-shaped substring in the raw (case-preserving) text.
func matchEmail(raw string) string {
	return emailRe.FindString(raw)
}

// matchPhone finds a US-format phone substring (three-digit groups with
// optional separators or parentheses).
func matchPhone(raw string) string {
	return phoneRe.FindString(raw)
}

func matchCompany(lower string) string {
	return firstGroup(companyRe, lower)
}

func matchTitle(lower string) string {
	return firstGroup(titleRe, lower)
}

// matchLocation scans for from/in/location triggers. Company trigger phrases
// are blanked out first so that "from company acme" does not also read as a
// location of "company".
func matchLocation(lower string) string {
	scrubbed := companyRe.ReplaceAllString(lower, "")
	return firstGroup(locationRe, scrubbed)
}

// fallbackName strips conversational stop phrases from the original query,
// discards tokens of length <= 2, and rejoins the survivors with single
// spaces. An empty result leaves the name unset, degrading the search to an
// unfiltered listing.
func fallbackName(raw string) string {
	stripped := stopPhraseRe.ReplaceAllString(raw, " ")

	var kept []string
	for _, tok := range strings.Fields(stripped) {
		if len(tok) <= 2 {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
