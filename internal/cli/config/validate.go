package config

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/language"
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %v, got %q", OutputFormats, c.OutputFormat))
	}
	if _, err := c.LocaleTag(); err != nil {
		errs = append(errs, err)
	}
	if c.QueryTimeout < 0 {
		errs = append(errs, errors.New("query_timeout must not be negative"))
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port out of range: %d", c.UI.Port))
	}
	if c.UI.PageSize < 0 {
		errs = append(errs, errors.New("ui.page_size must not be negative"))
	}
	if c.Import.MaxFiles < 0 {
		errs = append(errs, errors.New("import.max_files must not be negative"))
	}
	if c.DuckDB.Threads < 0 {
		errs = append(errs, errors.New("duckdb.threads must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LocaleTag parses the locale key. An empty locale is the default.
func (c *Config) LocaleTag() (language.Tag, error) {
	if c.Locale == "" {
		return language.AmericanEnglish, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}
