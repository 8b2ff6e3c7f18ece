package exams

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Document holds everything the printable exam request carries.
type Document struct {
	PatientName   string
	ProcedureName string
	Exams         []string
	IssuedAt      time.Time
}

var documentTmpl = template.Must(template.New("exam-document").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Solicitação de Exames</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; color: #222; }
h1 { font-size: 20px; border-bottom: 2px solid #222; padding-bottom: 8px; }
.meta { margin: 16px 0; font-size: 14px; }
.meta span { display: block; margin: 2px 0; }
ol { font-size: 14px; }
footer { margin-top: 48px; font-size: 12px; color: #666; }
</style>
</head>
<body>
<h1>Solicitação de Exames Laboratoriais</h1>
<div class="meta">
<span><strong>Paciente:</strong> {{.PatientName}}</span>
<span><strong>Procedimento:</strong> {{.ProcedureName}}</span>
<span><strong>Data:</strong> {{.IssuedAt.Format "02/01/2006"}}</span>
<span><strong>Exames solicitados:</strong> {{len .Exams}}</span>
</div>
<ol>
{{range .Exams}}<li>{{.}}</li>
{{end}}</ol>
<footer>Documento gerado eletronicamente. Válido para apresentação no laboratório.</footer>
</body>
</html>
`))

// RenderDocument produces the exam request as an HTML page ready for print
// or PDF conversion.
func RenderDocument(doc Document) (string, error) {
	var sb strings.Builder
	if err := documentTmpl.Execute(&sb, doc); err != nil {
		return "", fmt.Errorf("render exam document: %w", err)
	}
	return sb.String(), nil
}
