package messages

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultCatalog []byte

// Fallback is the language used when a caller's language has no translation.
const Fallback = "en"

// Texts are the user-facing strings of the bot in one language.
type Texts struct {
	LoginPrompt    string `yaml:"login_prompt"`
	LoginButton    string `yaml:"login_button"`
	LoginSuccess   string `yaml:"login_success"`
	LoginSuccessAs string `yaml:"login_success_as"`
	Welcome        string `yaml:"welcome"`
	Processing     string `yaml:"processing"`
	CreatedTitle   string `yaml:"created_title"`
	NotesTitle     string `yaml:"notes_title"`
	ViewLink       string `yaml:"view_link"`
	DeletingEvents string `yaml:"deleting_events"`
	EventsDeleted  string `yaml:"events_deleted"`
	DeleteFailed   string `yaml:"delete_failed"`
}

// LoginSucceeded renders the login confirmation, naming the account when known.
func (t Texts) LoginSucceeded(email string) string {
	if email == "" {
		return t.LoginSuccess
	}
	return fmt.Sprintf(t.LoginSuccessAs, email)
}

type Catalog struct {
	matcher language.Matcher
	texts   []Texts
}

// Load parses the embedded catalog and, when overridePath is set, layers the
// languages and keys of that file on top of it. Keys missing from an override
// keep their embedded value; new languages start from the fallback texts.
func Load(overridePath string) (*Catalog, error) {
	base, err := decode(defaultCatalog, nil)
	if err != nil {
		return nil, fmt.Errorf("decode embedded messages: %w", err)
	}

	if overridePath != "" {
		b, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("read messages %s: %w", overridePath, err)
		}
		base, err = decode(b, base)
		if err != nil {
			return nil, fmt.Errorf("decode messages %s: %w", overridePath, err)
		}
	}

	return newCatalog(base)
}

func decode(b []byte, base map[string]Texts) (map[string]Texts, error) {
	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(b, &nodes); err != nil {
		return nil, err
	}

	out := make(map[string]Texts, len(base)+len(nodes))
	for lang, texts := range base {
		out[lang] = texts
	}
	for lang, node := range nodes {
		texts, ok := out[lang]
		if !ok {
			texts = out[Fallback]
		}
		if err := node.Decode(&texts); err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		out[lang] = texts
	}
	return out, nil
}

func newCatalog(byLang map[string]Texts) (*Catalog, error) {
	if _, ok := byLang[Fallback]; !ok {
		return nil, fmt.Errorf("messages: missing %q texts", Fallback)
	}

	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		if lang != Fallback {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	langs = append([]string{Fallback}, langs...)

	tags := make([]language.Tag, 0, len(langs))
	texts := make([]Texts, 0, len(langs))
	for _, lang := range langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("messages: invalid language %q: %w", lang, err)
		}
		tags = append(tags, tag)
		texts = append(texts, byLang[lang])
	}

	return &Catalog{matcher: language.NewMatcher(tags), texts: texts}, nil
}

// For returns the texts best matching a Telegram language_code such as
// "vi" or "en-US". Unknown or empty codes get the fallback language.
func (c *Catalog) For(code string) Texts {
	tag, err := language.Parse(code)
	if err != nil {
		return c.texts[0]
	}
	_, idx, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return c.texts[0]
	}
	return c.texts[idx]
}
