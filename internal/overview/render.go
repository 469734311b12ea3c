package overview

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/overview.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("overview.html.tmpl").Funcs(template.FuncMap{
	"join": strings.Join,
	"slug": slug,
}).ParseFS(templateFS, "templates/overview.html.tmpl"))

// page 是模板的输入。
type page struct {
	Title      string
	Components []Component
}

// Render 将组件渲染为完整的 HTML 页面，每个组件一张卡片。
func Render(w io.Writer, components []Component) error {
	if err := pageTemplate.Execute(w, page{Title: "Business Education Agent", Components: components}); err != nil {
		return fmt.Errorf("渲染概览页失败: %w", err)
	}
	return nil
}

func slug(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash && b.Len() > 0 {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
