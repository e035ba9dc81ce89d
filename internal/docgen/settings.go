// Package docgen renders configuration references from the env tags of a
// configuration struct.
package docgen

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const generalSection = "GENERAL"

// acronyms keep their case in section titles.
var acronyms = map[string]bool{"OIDC": true}

// Setting is one environment variable.
type Setting struct {
	Env         string
	Default     string
	Description string
	Secret      bool
}

// Section groups the settings sharing an env prefix.
type Section struct {
	Name     string
	Title    string
	Settings []Setting
}

// Sections walks cfg, a struct or pointer to struct, in field order. Plain
// fields land in the general section; nested structs tagged with a prefix get
// a section of their own.
func Sections(cfg interface{}) ([]Section, error) {
	t := reflect.TypeOf(cfg)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("docgen: %s is not a struct", t)
	}

	general := Section{Name: generalSection, Title: title(generalSection)}
	var nested []Section

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}
		name, opts := parseTag(tag)

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if prefix, ok := opts["prefix"]; ok && ft.Kind() == reflect.Struct {
			section := Section{Name: strings.TrimSuffix(prefix, "_"), Title: title(strings.TrimSuffix(prefix, "_"))}
			for j := 0; j < ft.NumField(); j++ {
				if s, ok := settingOf(ft.Field(j), prefix); ok {
					section.Settings = append(section.Settings, s)
				}
			}
			nested = append(nested, section)
			continue
		}

		if name == "" {
			continue
		}
		if s, ok := settingOf(field, ""); ok {
			general.Settings = append(general.Settings, s)
		}
	}

	return append([]Section{general}, nested...), nil
}

func settingOf(field reflect.StructField, prefix string) (Setting, bool) {
	tag, ok := field.Tag.Lookup("env")
	if !ok {
		return Setting{}, false
	}
	name, opts := parseTag(tag)
	if name == "" {
		return Setting{}, false
	}
	return Setting{
		Env:         prefix + name,
		Default:     opts["default"],
		Description: field.Tag.Get("description"),
		Secret:      field.Tag.Get("type") == "secret",
	}, true
}

// parseTag splits `NAME, default=x, prefix=Y_` into the name and options.
// Defaults may themselves hold commas only as the last option.
func parseTag(tag string) (string, map[string]string) {
	parts := strings.Split(tag, ",")
	name := strings.TrimSpace(parts[0])
	opts := make(map[string]string)
	for i := 1; i < len(parts); i++ {
		part := strings.TrimSpace(parts[i])
		key, value, found := strings.Cut(part, "=")
		if !found {
			opts[key] = ""
			continue
		}
		if key == "default" {
			value = strings.Join(append([]string{value}, parts[i+1:]...), ",")
			opts[key] = value
			break
		}
		opts[key] = value
	}
	return name, opts
}

func title(name string) string {
	if acronyms[name] {
		return name
	}
	return cases.Title(language.English).String(strings.ToLower(name))
}
