package plotpage

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

var funcMap = template.FuncMap{
	"odd": func(i int) bool {
		return i%2 == 1
	},
}

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").
			Funcs(funcMap).
			ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", fmt.Errorf("loading templates: %w", err)
	}

	var buf bytes.Buffer

	if err = tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	//nolint:gosec // output of html/template is already escaped.
	return template.HTML(buf.String()), nil
}

type pageData struct {
	Title     string
	DarkClass string
	Theme     ThemeConfig
	ExtraCSS  template.CSS
	Header    template.HTML
	Content   template.HTML
	Scripts   template.HTML
}

type headerData struct {
	ProjectName     string
	Subtitle        string
	Title           string
	Description     string
	ShowThemeToggle bool
}

type sectionData struct {
	ID       string
	Title    string
	Subtitle string
	Chart    template.HTML
	Hint     *hintData
}

type hintData struct {
	Title string
	Items []string
}

type cardData struct {
	Title    string
	Subtitle string
	Content  template.HTML
}

type gridData struct {
	ColClass string
	Items    []template.HTML
}

type statData struct {
	Label string
	Value string
	Note  string
}

type alertData struct {
	Title   string
	Message string
	Classes string
}

type tableData struct {
	Headers []string
	Rows    [][]template.HTML
	Striped bool
}

type filesData struct {
	Files []fileRow
}

type fileRow struct {
	Name  string
	Lines string
	Dots  []dot
}

type dot struct {
	Type  string
	Color string
}

type narrativeData struct {
	Entries []narrativeRow
}

type narrativeRow struct {
	URL      template.URL
	ID       string
	Text     string
	Selected bool
}

type legendData struct {
	Items []legendItem
}

type legendItem struct {
	Type    string
	Color   string
	Lines   int
	Percent string
}
