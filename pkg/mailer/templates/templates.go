package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names used by the listing and adoption workflows.
const (
	ListingCreated    = "listing_created"
	AdoptionInterest  = "adoption_interest"
	AdoptionRequest   = "adoption_request"
	AdoptionStatus    = "adoption_status"
	AdoptionConfirmed = "adoption_confirmed"
)

var subjects = map[string]string{
	ListingCreated:    "Animal Listing Created - Stray2Stay",
	AdoptionInterest:  "Someone is interested in adopting your rescued animal!",
	AdoptionRequest:   "New Adoption Request - Stray2Stay",
	AdoptionStatus:    "Adoption Request Update - Stray2Stay",
	AdoptionConfirmed: "Congratulations! Adoption Confirmed - Stray2Stay",
}

// AnimalLabel names an animal in email copy, falling back to its type when
// the listing has no name.
func AnimalLabel(name, animalType string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return "the " + animalType
}

func baseFuncs() map[string]any {
	return map[string]any{
		"upper":       strings.ToUpper,
		"animalLabel": AnimalLabel,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// renderFile loads and renders a single template file from the embedded FS.
// isHTML selects html/template vs text/template.
func renderFile(filename string, isHTML bool, data any) (string, error) {
	var buf bytes.Buffer
	if isHTML {
		t, err := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if err != nil {
			return "", err
		}
		if err := t.ExecuteTemplate(&buf, filename, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	t, err := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
	if err != nil {
		return "", err
	}
	if err := t.ExecuteTemplate(&buf, filename, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render produces subject, text body, and HTML body for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	if data == nil {
		data = map[string]any{}
	}
	text, err = renderFile(name+".txt.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}
