// Package prompts holds the LLM prompt templates, embedded as JSON files of
// key to template text. Templates use {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt files
const (
	ResumeFile        = "resume.json"
	JobFile           = "job.json"
	MatchingFile      = "matching.json"
	CustomizationFile = "customization.json"
	ATSFile           = "ats.json"
)

var placeholderRE = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

// catalog parses every embedded file once
var catalog = sync.OnceValues(func() (map[string]map[string]string, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]string, len(names))
	for _, name := range names {
		data, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read prompt file %s: %w", name, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse prompt file %s: %w", name, err)
		}
		out[name] = entries
	}
	return out, nil
})

func file(filename string) (map[string]string, error) {
	all, err := catalog()
	if err != nil {
		return nil, err
	}
	entries, ok := all[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s does not exist", filename)
	}
	return entries, nil
}

// Get returns the template stored under key in filename (e.g. "resume.json").
func Get(filename, key string) (string, error) {
	entries, err := file(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts required at startup. It panics on failure.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic("prompts: " + err.Error())
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders. Placeholders without a value are left as is.
func Format(template string, data map[string]string) string {
	return placeholderRE.ReplaceAllStringFunc(template, func(m string) string {
		if v, ok := data[m[3:len(m)-2]]; ok {
			return v
		}
		return m
	})
}

// Placeholders lists the distinct placeholder names of template in order of appearance.
func Placeholders(template string) []string {
	var names []string
	for _, m := range placeholderRE.FindAllStringSubmatch(template, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Render loads a template and fills it. Every placeholder must have a value.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	var missing []string
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: no value for %s", filename, key, strings.Join(missing, ", "))
	}
	return Format(template, data), nil
}

// List returns the keys of filename, sorted.
func List(filename string) ([]string, error) {
	entries, err := file(filename)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(entries)), nil
}
