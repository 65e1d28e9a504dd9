package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/academydays/hubby/internal/lang"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to hubby! Let's configure the Academy Days assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Knowledge-base source.
	sourcePrompt := promptui.Select{
		Label: "Where does the knowledge base come from",
		Items: []string{
			"static      — a JSON document on disk",
			"spreadsheet — a published workbook URL, with the JSON document as fallback",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source selection: %w", err)
	}
	cfg.Source.Mode = []SourceMode{SourceStatic, SourceSpreadsheet}[sourceIdx]

	// 2. Static document path (always used, as primary or fallback).
	staticPrompt := promptui.Prompt{
		Label:   "Path of the static knowledge-base JSON",
		Default: cfg.Source.StaticPath,
	}
	cfg.Source.StaticPath, err = staticPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("static path: %w", err)
	}

	// 3. Spreadsheet URL.
	if cfg.Source.Mode == SourceSpreadsheet {
		urlPrompt := promptui.Prompt{
			Label: "Spreadsheet URL (xlsx export)",
			Validate: func(s string) error {
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must be an http(s) URL")
				}
				return nil
			},
		}
		cfg.Source.SpreadsheetURL, err = urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("spreadsheet url: %w", err)
		}
	}

	// 4. Default language.
	langPrompt := promptui.Select{
		Label: "Default language",
		Items: []string{string(lang.French), string(lang.English)},
	}
	_, langStr, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}
	cfg.DefaultLanguage = langStr

	// 5. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 6. Populations.
	popPrompt := promptui.Prompt{
		Label:   "Population tags (comma-separated)",
		Default: populationTags(cfg.Populations),
	}
	popStr, err := popPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("populations: %w", err)
	}
	cfg.Populations = populationsFromTags(splitAndTrim(popStr), cfg.Populations)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func populationTags(pops []Population) string {
	tags := make([]string, 0, len(pops))
	for _, p := range pops {
		tags = append(tags, p.Tag)
	}
	return strings.Join(tags, ",")
}

// populationsFromTags keeps known labels for tags that already exist and
// uses the tag itself as label for new ones.
func populationsFromTags(tags []string, known []Population) []Population {
	byTag := map[string]Population{}
	for _, p := range known {
		byTag[p.Tag] = p
	}
	out := make([]Population, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToUpper(tag)
		if p, ok := byTag[tag]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, Population{
			Tag:   tag,
			Label: lang.Text{"fr": tag, "en": tag},
			Link:  "/chat",
		})
	}
	return out
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
