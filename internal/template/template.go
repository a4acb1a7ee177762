// Package template generates the reference document whose styles the
// converter copies into every converted paper.
package template

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/apa7/internal/cache"
	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

// Generate builds a complete reference .docx for a rule set. The same rule
// set always yields the same bytes.
func Generate(rules *model.RuleSet) ([]byte, error) {
	pkg, err := build(rules)
	if err != nil {
		return nil, err
	}
	return pkg.Bytes()
}

func build(rules *model.RuleSet) (*ooxml.Package, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	pkg := ooxml.New()
	pkg.SetPart(ooxml.ContentTypesPart, []byte(contentTypes))

	// package relationships
	for _, rel := range []struct{ typ, target string }{
		{ooxml.RelTypeOfficeDocument, ooxml.DocumentPart},
		{ooxml.RelTypeCoreProps, ooxml.CorePropsPart},
		{ooxml.RelTypeExtendedProps, ooxml.AppPropsPart},
	} {
		if _, err := pkg.AddRelationship("", rel.typ, rel.target); err != nil {
			return nil, fmt.Errorf("package relationships: %w", err)
		}
	}

	// document relationships
	if _, err := pkg.AddRelationship(ooxml.DocumentPart, ooxml.RelTypeStyles, "styles.xml"); err != nil {
		return nil, fmt.Errorf("document relationships: %w", err)
	}
	if _, err := pkg.AddRelationship(ooxml.DocumentPart, ooxml.RelTypeSettings, "settings.xml"); err != nil {
		return nil, fmt.Errorf("document relationships: %w", err)
	}
	headerID, err := pkg.AddRelationship(ooxml.DocumentPart, ooxml.RelTypeHeader, "header1.xml")
	if err != nil {
		return nil, fmt.Errorf("document relationships: %w", err)
	}

	pkg.SetXML(ooxml.DocumentPart, buildDocument(rules, headerID))
	pkg.SetXML(ooxml.StylesPart, buildStyles(rules))
	pkg.SetPart(ooxml.SettingsPart, []byte(settings))
	pkg.SetXML(headerPart, ooxml.PageNumberHeader(rules.MustDirective(model.RoleBody)))
	pkg.SetPart(ooxml.CorePropsPart, []byte(coreProps))
	pkg.SetPart(ooxml.AppPropsPart, []byte(appProps))
	return pkg, nil
}

// Fingerprint identifies the template a rule set produces.
func Fingerprint(rules *model.RuleSet) (string, error) {
	return rules.Fingerprint()
}

// Generator produces templates through a cache keyed by fingerprint, so a
// template is only rebuilt when the rules change.
type Generator struct {
	rules  *model.RuleSet
	cache  cache.Cache
	logger *slog.Logger
}

// NewGenerator creates a generator. A nil cache disables caching; a nil
// logger discards log output.
func NewGenerator(rules *model.RuleSet, c cache.Cache, logger *slog.Logger) *Generator {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{rules: rules, cache: c, logger: logger}
}

// WithLogger returns a copy of the generator that logs to logger.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	c := *g
	c.logger = logger
	return &c
}

// Bytes returns the template for the generator's rule set and whether it
// came from the cache.
func (g *Generator) Bytes() ([]byte, bool, error) {
	fp, err := Fingerprint(g.rules)
	if err != nil {
		return nil, false, err
	}
	key := cache.TemplateKey(fp)

	if data, ok := g.cache.Get(key); ok {
		if _, err := ooxml.Read(data); err == nil {
			g.logger.Debug("template cache hit", "fingerprint", fp[:12])
			return data, true, nil
		}
		g.logger.Warn("discarding unreadable cached template", "fingerprint", fp[:12])
		_ = g.cache.Delete(key)
	}

	data, err := Generate(g.rules)
	if err != nil {
		return nil, false, err
	}
	if err := g.cache.Set(key, data, 0); err != nil {
		// a cache failure never fails generation
		g.logger.Warn("template cache write failed", "error", err)
	}
	g.logger.Debug("template generated", "fingerprint", fp[:12], "bytes", len(data))
	return data, false, nil
}

// WriteFile writes the template to path, replacing any existing file.
func (g *Generator) WriteFile(path string) error {
	data, cached, err := g.Bytes()
	if err != nil {
		return err
	}
	pkg, err := ooxml.Read(data)
	if err != nil {
		return err
	}
	if err := pkg.Save(path); err != nil {
		return fmt.Errorf("write template %s: %w", path, err)
	}
	g.logger.Info("template written", "path", path, "cached", cached)
	return nil
}
