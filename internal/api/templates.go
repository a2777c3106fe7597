package api

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TemplateFuncs are the helpers available to the HTML templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"title": func(s string) string {
			return cases.Title(language.English).String(s)
		},
		"seq": func(lo, hi int) []int {
			if hi < lo {
				return nil
			}
			out := make([]int, 0, hi-lo+1)
			for i := lo; i <= hi; i++ {
				out = append(out, i)
			}
			return out
		},
	}
}

// LoadTemplates parses the embedded pages into the engine
func LoadTemplates(engine *gin.Engine) error {
	tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return err
	}
	engine.SetHTMLTemplate(tmpl)
	return nil
}
