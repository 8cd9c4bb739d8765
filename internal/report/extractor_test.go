// File path: internal/report/extractor_test.go
package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const numberedReport = "1. Accomplishments:\n* Shipped v1\n\n2. Insights:\n* Users want dark mode\n\n3. Decisions:\n* Need more budget\n\n4. Next Steps:\n* Plan v2"

func TestExtractNumberedHeadings(t *testing.T) {
	out := Extract(numberedReport, ExtractOptions{})
	assert.Equal(t, "* Shipped v1", out.Sections.Accomplishments)
	assert.Equal(t, "* Users want dark mode", out.Sections.Insights)
	assert.Equal(t, "* Need more budget", out.Sections.Decisions)
	assert.Equal(t, "* Plan v2", out.Sections.NextSteps)
}

func TestExtractAllSectionsNonEmptyWithoutHeadingLines(t *testing.T) {
	raw := "Title: Platform Update\n\n" +
		"1. Accomplishments:\n* Finished the tutorial revamp\n\n" +
		"II. Insights:\n* Students prefer short videos\n\n" +
		"3) Decisions:\n* Freeze scope for launch\n\n" +
		"4. Next Steps:\n* Record the next module"
	out := Extract(raw, ExtractOptions{})
	require.Equal(t, "Platform Update", out.Title)
	for _, section := range []string{
		out.Sections.Accomplishments,
		out.Sections.Insights,
		out.Sections.Decisions,
		out.Sections.NextSteps,
	} {
		require.NotEmpty(t, section)
		assert.NotContains(t, section, "Accomplishments:")
		assert.NotContains(t, section, "Insights:")
		assert.NotContains(t, section, "Decisions:")
		assert.NotContains(t, section, "Next Steps:")
	}
}

func TestExtractSynonymHeadings(t *testing.T) {
	raw := "1. Achievements:\n* Released beta\n\n2. Learnings:\n* Onboarding is too long\n\n3. Risks:\n* Vendor delay\n\n4. Action Items:\n* Chase vendor"
	out := Extract(raw, ExtractOptions{})
	assert.Equal(t, "* Released beta", out.Sections.Accomplishments)
	assert.Equal(t, "* Onboarding is too long", out.Sections.Insights)
	assert.Equal(t, "* Vendor delay", out.Sections.Decisions)
	assert.Equal(t, "* Chase vendor", out.Sections.NextSteps)
}

func TestExtractBoldHeadingVariant(t *testing.T) {
	raw := "**1. Accomplishments**:\n* Launched the course catalog\n\n" +
		"**2. Insights**:\n* Search drives signups\n\n" +
		"**3. Decisions**:\n* Keep pricing flat\n\n" +
		"**4. Next Steps**:\n* Add testimonials"
	out := Extract(raw, ExtractOptions{})
	assert.Equal(t, "* Launched the course catalog", out.Sections.Accomplishments)
	assert.Equal(t, "* Search drives signups", out.Sections.Insights)
	assert.Equal(t, "* Keep pricing flat", out.Sections.Decisions)
	assert.Equal(t, "* Add testimonials", out.Sections.NextSteps)
}

func TestExtractBulletFallbackRoundRobin(t *testing.T) {
	raw := "Here is what happened this week.\n" +
		"* finished the editor\n" +
		"* learned users skip intros\n" +
		"- decided to cut the quiz\n" +
		"* plan the beta invite\n" +
		"- draft the newsletter"
	out := Extract(raw, ExtractOptions{})
	assert.Equal(t, "* finished the editor\n- draft the newsletter", out.Sections.Accomplishments)
	assert.Equal(t, "* learned users skip intros", out.Sections.Insights)
	assert.Equal(t, "- decided to cut the quiz", out.Sections.Decisions)
	assert.Equal(t, "* plan the beta invite", out.Sections.NextSteps)

	total := 0
	for _, section := range []string{
		out.Sections.Accomplishments,
		out.Sections.Insights,
		out.Sections.Decisions,
		out.Sections.NextSteps,
	} {
		total += len(strings.Split(section, "\n"))
	}
	assert.Equal(t, 5, total)
}

func TestExtractUnstructuredTextUsesDefaults(t *testing.T) {
	raw := "The model replied with prose that has no headings and no bullet lines at all."
	out := Extract(raw, ExtractOptions{})
	assert.Equal(t, DefaultSectionNote("accomplishments"), out.Sections.Accomplishments)
	assert.Equal(t, DefaultSectionNote("insights"), out.Sections.Insights)
	assert.Equal(t, DefaultSectionNote("decisions"), out.Sections.Decisions)
	assert.Equal(t, DefaultSectionNote("next steps"), out.Sections.NextSteps)
}

func TestExtractAllowEmptyLeavesSectionsEmpty(t *testing.T) {
	raw := "1. Accomplishments:\n* Wrapped up the pricing page"
	out := Extract(raw, ExtractOptions{AllowEmpty: true})
	assert.Equal(t, "* Wrapped up the pricing page", out.Sections.Accomplishments)
	assert.Empty(t, out.Sections.Insights)
	assert.Empty(t, out.Sections.Decisions)
	assert.Empty(t, out.Sections.NextSteps)
}

func TestExtractIsIdempotent(t *testing.T) {
	raw := numberedReport + "\n\nSome trailing commentary."
	first := Extract(raw, ExtractOptions{})
	second := Extract(raw, ExtractOptions{})
	assert.Equal(t, first, second)
}

func TestExtractTitleLabels(t *testing.T) {
	cases := map[string]string{
		"Title: Q3 Launch Report\n1. Accomplishments:\n* a": "Q3 Launch Report",
		"Project: Academy Revamp\n* one bullet":             "Academy Revamp",
		"**Report**: Weekly Update\n* one bullet":           "Weekly Update",
		"No labels anywhere in this text.":                  "Status Report",
	}
	for raw, want := range cases {
		out := Extract(raw, ExtractOptions{AllowEmpty: true})
		assert.Equal(t, want, out.Title, "input: %q", raw)
	}
}

func TestMergeSectionsAppends(t *testing.T) {
	base := Sections{Accomplishments: "* existing work"}
	update := Sections{Accomplishments: "* new work", Insights: "* fresh insight"}
	merged := MergeSections(base, update)
	assert.Equal(t, "* existing work\n* new work", merged.Accomplishments)
	assert.Equal(t, "* fresh insight", merged.Insights)
	assert.Empty(t, merged.Decisions)
	assert.Empty(t, merged.NextSteps)
}

func TestFormatReportDate(t *testing.T) {
	cases := map[int]string{1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th", 21: "st", 22: "nd", 23: "rd"}
	for day, suffix := range cases {
		assert.Equal(t, suffix, ordinalSuffix(day), "day %d", day)
	}
}
