// File path: internal/report/extractor.go
package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ExtractOptions selects between the two extraction call sites. The
// incremental chat flow tolerates empty sections because the report is not
// yet final; the full-report flow substitutes default notes instead.
type ExtractOptions struct {
	AllowEmpty bool
}

// Extraction is the parsed portion of a ReportState. Date and metadata are
// the caller's responsibility.
type Extraction struct {
	Title    string
	Sections Sections
}

type sectionSpec struct {
	label string
	names []string
}

// The canonical section names, in report order, with the heading synonyms
// models are known to emit.
var sectionSpecs = [4]sectionSpec{
	{label: "accomplishments", names: []string{"Accomplishments", "Achievements"}},
	{label: "insights", names: []string{"Insights", "Learnings", "Key Insights"}},
	{label: "decisions", names: []string{"Decisions", "Risks"}},
	{label: "next steps", names: []string{"Next Steps", "Action Items"}},
}

var (
	numberedPatterns [4]*regexp.Regexp
	boldPatterns     [4]*regexp.Regexp

	titlePattern  = regexp.MustCompile(`(?mi)^[ \t]*(?:\*\*[ \t]*)?(?:Title|Project|Report)(?:[ \t]*\*\*)?[ \t]*:[ \t]*(.+)$`)
	bulletLine    = regexp.MustCompile(`^[ \t]*[*-][ \t]+\S`)
	boldOnlyLine  = regexp.MustCompile(`^\*\*[^*]+\*\*:?$`)
	mdHeadingLine = regexp.MustCompile(`^#{1,4}[ \t]`)
)

func init() {
	for i, spec := range sectionSpecs {
		alt := strings.Join(spec.names, "|")
		// A numbered or roman-numeral heading, or the bare name followed
		// by a colon, optionally behind a markdown heading marker.
		numberedPatterns[i] = regexp.MustCompile(
			`(?mi)^[ \t]*(?:#{1,4}[ \t]*)?(?:(?:\d{1,2}|[ivx]{1,5})[.):][ \t]*(?:` + alt + `)\b[ \t]*:?|(?:` + alt + `)[ \t]*:)`)
		boldPatterns[i] = regexp.MustCompile(
			`(?mi)^[ \t]*\*\*[ \t]*(?:(?:\d{1,2}|[ivx]{1,5})[.)]?[ \t]*)?(?:` + alt + `)[ \t]*:?[ \t]*\*\*[ \t]*:?`)
	}
}

// DefaultSectionNote is the literal substituted when a final report has no
// recognizable content for a section.
func DefaultSectionNote(label string) string {
	return fmt.Sprintf("* No %s identified in the provided documents.", label)
}

// Extract parses free-text model output into report sections by applying, in
// order: numbered/roman headings, bold-markdown headings, bullet round-robin
// redistribution, and finally default notes (full-report mode only). Calling
// it twice on the same text yields identical results.
func Extract(raw string, opts ExtractOptions) Extraction {
	text := strings.TrimSpace(raw)
	out := Extraction{Title: extractTitle(text)}
	if text != "" {
		matches := findHeadings(text, numberedPatterns)
		if len(matches) == 0 && strings.Contains(text, "Accomplishments") {
			matches = findHeadings(text, boldPatterns)
		}
		if len(matches) > 0 {
			assignCaptures(text, matches, &out.Sections)
		} else {
			distributeBullets(collectBullets(text), &out.Sections)
		}
	}
	if !opts.AllowEmpty {
		fillDefaults(&out.Sections)
	}
	return out
}

type headingMatch struct {
	section    int
	start, end int
}

func findHeadings(text string, patterns [4]*regexp.Regexp) []headingMatch {
	var matches []headingMatch
	for i, pattern := range patterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			matches = append(matches, headingMatch{section: i, start: loc[0], end: loc[1]})
		}
	}
	sort.Slice(matches, func(a, b int) bool { return matches[a].start < matches[b].start })
	return matches
}

func assignCaptures(text string, matches []headingMatch, sections *Sections) {
	for i, match := range matches {
		if getSection(sections, match.section) != "" {
			continue
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1].start
		}
		content := stripLeadingHeadings(text[match.end:end])
		if content != "" {
			setSection(sections, match.section, content)
		}
	}
}

func collectBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		if bulletLine.MatchString(line) {
			bullets = append(bullets, strings.TrimSpace(line))
		}
	}
	return bullets
}

// distributeBullets spreads bullet lines round-robin across the four
// sections in fixed order, preserving their original order within each.
func distributeBullets(bullets []string, sections *Sections) {
	buckets := [4][]string{}
	for i, bullet := range bullets {
		buckets[i%4] = append(buckets[i%4], bullet)
	}
	for i, bucket := range buckets {
		if len(bucket) > 0 {
			setSection(sections, i, strings.Join(bucket, "\n"))
		}
	}
}

func fillDefaults(sections *Sections) {
	for i, spec := range sectionSpecs {
		if getSection(sections, i) == "" {
			setSection(sections, i, DefaultSectionNote(spec.label))
		}
	}
}

// stripLeadingHeadings drops bold or markdown heading lines that leaked into
// the start of a capture.
func stripLeadingHeadings(content string) string {
	lines := strings.Split(content, "\n")
	idx := 0
	for idx < len(lines) {
		trimmed := strings.TrimSpace(lines[idx])
		if trimmed == "" || boldOnlyLine.MatchString(trimmed) || mdHeadingLine.MatchString(trimmed) {
			idx++
			continue
		}
		break
	}
	return strings.TrimSpace(strings.Join(lines[idx:], "\n"))
}

func extractTitle(text string) string {
	if match := titlePattern.FindStringSubmatch(text); match != nil {
		title := strings.TrimSpace(match[1])
		title = strings.TrimSuffix(title, "**")
		title = strings.TrimSpace(strings.Trim(title, "*"))
		if title != "" {
			return title
		}
	}
	return "Status Report"
}

// MergeSections appends freshly extracted content onto an existing report's
// sections, used by the incremental chat flow.
func MergeSections(base, update Sections) Sections {
	merged := base
	merged.Accomplishments = appendSection(base.Accomplishments, update.Accomplishments)
	merged.Insights = appendSection(base.Insights, update.Insights)
	merged.Decisions = appendSection(base.Decisions, update.Decisions)
	merged.NextSteps = appendSection(base.NextSteps, update.NextSteps)
	return merged
}

func appendSection(existing, addition string) string {
	addition = strings.TrimSpace(addition)
	if addition == "" {
		return existing
	}
	if strings.TrimSpace(existing) == "" {
		return addition
	}
	return existing + "\n" + addition
}

func getSection(sections *Sections, idx int) string {
	switch idx {
	case 0:
		return sections.Accomplishments
	case 1:
		return sections.Insights
	case 2:
		return sections.Decisions
	default:
		return sections.NextSteps
	}
}

func setSection(sections *Sections, idx int, value string) {
	switch idx {
	case 0:
		sections.Accomplishments = value
	case 1:
		sections.Insights = value
	case 2:
		sections.Decisions = value
	default:
		sections.NextSteps = value
	}
}
