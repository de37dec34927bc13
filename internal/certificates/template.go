package certificates

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template holds the fixed wording and page setup of the certificate.
type Template struct {
	Title                  string `yaml:"title"`
	Subtitle               string `yaml:"subtitle"`
	IssuerName             string `yaml:"issuer_name"`
	SignerName             string `yaml:"signer_name"`
	SignerTitle            string `yaml:"signer_title"`
	AccreditationStatement string `yaml:"accreditation_statement"`
	PageSize               string `yaml:"page_size"`
	Orientation            string `yaml:"orientation"`
	// Compress deflates page content streams.
	Compress bool `yaml:"compress"`
}

func DefaultTemplate() Template {
	return Template{
		Title:       "Certificate of Completion",
		Subtitle:    "This certifies that",
		IssuerName:  "Continuing Education Program",
		SignerName:  "Program Director",
		SignerTitle: "Director of Continuing Education",
		PageSize:    "Letter",
		Orientation: "L",
	}
}

// LoadTemplate reads a YAML template; fields left empty keep their defaults.
// An empty path returns the defaults.
func LoadTemplate(path string) (Template, error) {
	tpl := DefaultTemplate()
	path = strings.TrimSpace(path)
	if path == "" {
		return tpl, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return tpl, fmt.Errorf("read template %s: %w", path, err)
	}
	return ParseTemplate(raw)
}

func ParseTemplate(raw []byte) (Template, error) {
	var override Template
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return DefaultTemplate(), fmt.Errorf("parse template: %w", err)
	}
	return mergeTemplate(DefaultTemplate(), override), nil
}

func mergeTemplate(base, o Template) Template {
	pick := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	pick(&base.Title, o.Title)
	pick(&base.Subtitle, o.Subtitle)
	pick(&base.IssuerName, o.IssuerName)
	pick(&base.SignerName, o.SignerName)
	pick(&base.SignerTitle, o.SignerTitle)
	pick(&base.AccreditationStatement, o.AccreditationStatement)
	pick(&base.PageSize, o.PageSize)
	pick(&base.Orientation, o.Orientation)
	base.Compress = o.Compress
	return base
}
