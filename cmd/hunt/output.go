package hunt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/skoov/coverhunter/internal/collect"
	"github.com/skoov/coverhunter/internal/fileutil"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	nameStyle   = lipgloss.NewStyle().Bold(true)
	sourceStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// WriteArchive writes the session's cover zip, respecting the overwrite
// flag. Returns false when nothing was collected.
func WriteArchive(session *collect.Session, zipPath string, overwrite bool) (bool, error) {
	if session.Resolved() == 0 {
		return false, nil
	}

	data, err := session.Archive()
	if err != nil {
		return false, fmt.Errorf("failed to build cover archive: %w", err)
	}

	written, err := fileutil.WriteFileWithOverwrite(zipPath, data, 0644, overwrite)
	if err != nil {
		return false, fmt.Errorf("failed to write cover archive: %w", err)
	}
	if !written {
		slog.Warn("Archive already exists, skipping (use --overwrite)", "path", zipPath)
		return false, nil
	}

	slog.Info("Cover archive written", "path", zipPath, "covers", session.Resolved())
	return true, nil
}

// reportDoc is the YAML shape of --report output.
type reportDoc struct {
	Attempted       int            `yaml:"attempted"`
	Resolved        int            `yaml:"resolved"`
	Items           []collect.Item `yaml:"items"`
	Recommendations []Section      `yaml:"recommendations,omitempty"`
}

// WriteReport writes a YAML manifest of the run next to the archive.
func WriteReport(session *collect.Session, sections []Section, reportPath string, overwrite bool) error {
	doc := reportDoc{
		Attempted:       session.Attempted(),
		Resolved:        session.Resolved(),
		Items:           session.Items(),
		Recommendations: sections,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	written, err := fileutil.WriteFileWithOverwrite(reportPath, data, 0644, overwrite)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if !written {
		slog.Warn("Report already exists, skipping (use --overwrite)", "path", reportPath)
		return nil
	}

	slog.Info("Report written", "path", reportPath)
	return nil
}

// RenderSummary formats the run results for the terminal.
func RenderSummary(session *collect.Session) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Found: %d albums", session.Resolved())))
	b.WriteString("\n")

	for _, item := range session.Items() {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			nameStyle.Render(item.Name),
			sourceStyle.Render(item.Source),
		))
	}

	missed := session.Attempted() - session.Resolved()
	if missed > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d listing(s) had no resolvable artwork", missed)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRecommendations formats the similar-artist sections in seed order.
func RenderRecommendations(sections []Section) string {
	if len(sections) == 0 {
		return ""
	}

	var b strings.Builder
	for _, section := range sections {
		b.WriteString(titleStyle.Render("Because you like: " + section.Seed))
		b.WriteString("\n")
		for _, s := range section.Suggestions {
			b.WriteString(fmt.Sprintf("  %s  %s\n", nameStyle.Render(s.Name), sourceStyle.Render(s.ImageURL)))
		}
	}
	return b.String()
}
