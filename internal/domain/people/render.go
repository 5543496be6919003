package people

import (
	"fmt"
	"sort"
	"strings"
)

// notAvailable substitutes for absent scalar fields in rendered output.
const notAvailable = "N/A"

// noResultsText is the fixed sentence rendered when zero records match.
const noResultsText = "No matching people found."

// RenderSummary renders search results as a numbered list, one block per
// model, including the phone field. The output depends only on the input
// models: rendering the same models twice yields byte-identical text.
func RenderSummary(models []PresentationModel) string {
	return renderNumbered(models, true)
}

// RenderListing renders a plain directory listing (no phone field).
func RenderListing(models []PresentationModel) string {
	return renderNumbered(models, false)
}

func renderNumbered(models []PresentationModel, withPhone bool) string {
	if len(models) == 0 {
		return noResultsText
	}

	var b strings.Builder
	for i, m := range models {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. Name: %s\n", i+1, orNA(m.Name))
		fmt.Fprintf(&b, "   Email: %s\n", orNA(m.Email))
		fmt.Fprintf(&b, "   Company: %s\n", orNA(m.Company))
		fmt.Fprintf(&b, "   Title: %s\n", orNA(m.Title))
		fmt.Fprintf(&b, "   Location: %s\n", orNA(m.Location))
		if withPhone {
			fmt.Fprintf(&b, "   Phone: %s\n", orNA(m.Phone))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderDetail renders a single person as labeled sections: Basic
// Information always, Extended Information only when an extension is
// present, with each sub-section emitted only if its source list is
// non-empty.
func RenderDetail(m PresentationModel) string {
	var b strings.Builder

	b.WriteString("Basic Information:\n")
	fmt.Fprintf(&b, "  Name: %s\n", orNA(m.Name))
	fmt.Fprintf(&b, "  Email: %s\n", orNA(m.Email))
	fmt.Fprintf(&b, "  Phone: %s\n", orNA(m.Phone))
	fmt.Fprintf(&b, "  Company: %s\n", orNA(m.Company))
	fmt.Fprintf(&b, "  Title: %s\n", orNA(m.Title))
	fmt.Fprintf(&b, "  Location: %s\n", orNA(m.Location))

	if ext := m.Extension; ext != nil {
		b.WriteString("\nExtended Information:\n")
		writeExtension(&b, ext)
	}

	return strings.TrimRight(b.String(), "\n")
}

// writeExtension emits the extension sub-sections. Absent sub-fields are
// omitted entirely; nothing inside the extension is placeholdered.
func writeExtension(b *strings.Builder, ext *Extension) {
	if ext.DisplayName != "" {
		fmt.Fprintf(b, "  Display Name: %s\n", ext.DisplayName)
	}
	if ext.Bio != "" {
		fmt.Fprintf(b, "  Bio: %s\n", ext.Bio)
	}
	if ext.Gender != "" {
		fmt.Fprintf(b, "  Gender: %s\n", ext.Gender)
	}
	if ext.Location != "" {
		fmt.Fprintf(b, "  Location: %s\n", ext.Location)
	}

	if len(ext.PhoneNumbers) > 0 {
		b.WriteString("  Phone Numbers:\n")
		for _, p := range ext.PhoneNumbers {
			fmt.Fprintf(b, "    - %s\n", p)
		}
	}

	if len(ext.AlternateEmails) > 0 {
		b.WriteString("  Alternative Emails:\n")
		for _, e := range ext.AlternateEmails {
			fmt.Fprintf(b, "    - %s\n", e)
		}
	}

	// Only profiles carrying a URL are rendered; platforms are sorted so the
	// map iteration order cannot leak into the output.
	if urls := profilesWithURL(ext.SocialProfiles); len(urls) > 0 {
		b.WriteString("  Social Profiles:\n")
		for _, p := range urls {
			fmt.Fprintf(b, "    - %s: %s\n", p.platform, p.url)
		}
	}

	if len(ext.Organizations) > 0 {
		b.WriteString("  Organizations:\n")
		for _, org := range ext.Organizations {
			if org.Title != "" {
				fmt.Fprintf(b, "    - %s (%s)\n", org.Name, org.Title)
			} else {
				fmt.Fprintf(b, "    - %s\n", org.Name)
			}
		}
	}
}

type platformURL struct {
	platform string
	url      string
}

func profilesWithURL(profiles map[string]SocialProfile) []platformURL {
	var out []platformURL
	for platform, p := range profiles {
		if p.URL == "" {
			continue
		}
		out = append(out, platformURL{platform: platform, url: p.URL})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].platform < out[j].platform })
	return out
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
