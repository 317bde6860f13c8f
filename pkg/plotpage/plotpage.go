// Package plotpage renders the commit dashboard as a single self-contained
// HTML page: echarts charts, stat cards, the file distribution and the
// commit narrative.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

const styleTagLen = len("</style>")

// Hint contains interpretive guidance for a section.
type Hint struct {
	Title string
	Items []string
}

// Section is one titled block of the page.
type Section struct {
	ID       string
	Title    string
	Subtitle string
	Hint     Hint
	Chart    Renderable
}

// Page represents a complete dashboard page.
type Page struct {
	Title           string
	Description     string
	ProjectName     string
	ProjectSubtitle string
	ShowThemeToggle bool
	Theme           Theme
	Sections        []Section
}

// NewPage creates a new page with the dark theme.
func NewPage(title, description string) *Page {
	return &Page{
		Title:           title,
		Description:     description,
		ProjectName:     "commitplot",
		ProjectSubtitle: "Commit history",
		ShowThemeToggle: true,
		Theme:           ThemeDark,
	}
}

// WithTheme sets the theme for the page.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	return HTMLRenderer{}.Render(w, p)
}

// Renderable is anything that writes an HTML fragment.
type Renderable interface {
	Render(w io.Writer) error
}

// HTMLRenderer renders pages as HTML.
type HTMLRenderer struct {
	ExtraCSS string
}

// Render writes page to w.
func (r HTMLRenderer) Render(w io.Writer, page *Page) error {
	header, err := renderTemplate("header.html", headerData{
		ProjectName:     page.ProjectName,
		Subtitle:        page.ProjectSubtitle,
		Title:           page.Title,
		Description:     page.Description,
		ShowThemeToggle: page.ShowThemeToggle,
	})
	if err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	var sections bytes.Buffer

	for _, section := range page.Sections {
		html, sectionErr := r.renderSection(section)
		if sectionErr != nil {
			return fmt.Errorf("render section %q: %w", section.Title, sectionErr)
		}

		sections.WriteString(string(html))
	}

	scripts, err := renderTemplate("scripts.html", nil)
	if err != nil {
		return fmt.Errorf("render scripts: %w", err)
	}

	darkClass := ""
	if page.Theme == ThemeDark {
		darkClass = "dark"
	}

	html, err := renderTemplate("page.html", pageData{
		Title:     page.Title,
		DarkClass: darkClass,
		Theme:     GetThemeConfig(page.Theme),
		ExtraCSS:  template.CSS(r.ExtraCSS),
		Header:    header,
		Content:   template.HTML(sections.String()),
		Scripts:   scripts,
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	if _, err = io.WriteString(w, string(html)); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func (r HTMLRenderer) renderSection(section Section) (template.HTML, error) {
	chart, err := renderFragment(section.Chart)
	if err != nil {
		return "", err
	}

	var hint *hintData

	if len(section.Hint.Items) > 0 {
		hint = &hintData{Title: section.Hint.Title, Items: section.Hint.Items}
	}

	return renderTemplate("section.html", sectionData{
		ID:       section.ID,
		Title:    section.Title,
		Subtitle: section.Subtitle,
		Chart:    chart,
		Hint:     hint,
	})
}

// ChartWrapper renders an echarts chart as a fragment without the full page.
type ChartWrapper struct {
	chart Renderable
}

// WrapChart wraps an echarts chart.
func WrapChart(chart Renderable) *ChartWrapper {
	return &ChartWrapper{chart: chart}
}

// Render writes the chart element and script.
func (cw *ChartWrapper) Render(w io.Writer) error {
	html, err := renderFragment(cw.chart)
	if err != nil {
		return err
	}

	if _, err = io.WriteString(w, string(html)); err != nil {
		return fmt.Errorf("writing chart content: %w", err)
	}

	return nil
}

func renderFragment(r Renderable) (template.HTML, error) {
	if r == nil {
		return "", nil
	}

	var buf bytes.Buffer

	if err := r.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return template.HTML(extractChartContent(buf.String())), nil
}

// extractChartContent strips the page shell that go-echarts renders around
// a chart. Fragments from our own components pass through unchanged.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	end := strings.Index(html, `</body>`)

	if start == -1 || end == -1 || end < start {
		return html
	}

	content := strings.ReplaceAll(html[start:end], `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			return content
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			return content
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}
}
