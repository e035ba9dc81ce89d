package docgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"

	"github.com/shortnote/shortnote-bot/config"
)

type sampleOIDC struct {
	Enable bool   `env:"ENABLE, default=false" description:"Enable OIDC"`
	Secret string `env:"SECRET" type:"secret" description:"Client secret"`
}

type sample struct {
	Name    string      `env:"NAME, default=bot" description:"Name"`
	Hosts   string      `env:"HOSTS, default=a,b" description:"Hosts"`
	Token   string      `env:"TOKEN" type:"secret" description:"Token"`
	OIDC    *sampleOIDC `env:", prefix=OIDC_" description:"OIDC configuration"`
	Plain   string
}

func TestSections(t *testing.T) {
	sections, err := Sections(sample{})
	require.NoError(t, err)

	expected := []Section{
		{
			Name:  "GENERAL",
			Title: "General",
			Settings: []Setting{
				{Env: "NAME", Default: "bot", Description: "Name"},
				{Env: "HOSTS", Default: "a,b", Description: "Hosts"},
				{Env: "TOKEN", Description: "Token", Secret: true},
			},
		},
		{
			Name:  "OIDC",
			Title: "OIDC",
			Settings: []Setting{
				{Env: "OIDC_ENABLE", Default: "false", Description: "Enable OIDC"},
				{Env: "OIDC_SECRET", Description: "Client secret", Secret: true},
			},
		},
	}
	assert.Equal(t, expected, sections)
}

func TestSections_NotAStruct(t *testing.T) {
	_, err := Sections("nope")
	assert.Error(t, err)
}

func TestSections_Config(t *testing.T) {
	sections, err := Sections(&config.Config{})
	require.NoError(t, err)

	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"General", "Telegram", "Google", "OIDC", "Calendar", "Store", "Server"}, titles)

	var found bool
	for _, s := range sections[1].Settings {
		if s.Env == "TELEGRAM_BOT_TOKEN" {
			found = true
			assert.True(t, s.Secret)
		}
	}
	assert.True(t, found)
}

func TestWriteEnv(t *testing.T) {
	sections, err := Sections(sample{})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteEnv(&sb, sections))
	assert.Equal(t, "# General settings\nNAME=bot\nHOSTS=a,b\nTOKEN=\n\n# OIDC settings\nOIDC_ENABLE=false\nOIDC_SECRET=\n", sb.String())
}

func TestWriteMarkdown(t *testing.T) {
	sections, err := Sections(sample{})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteMarkdown(&sb, "Sample", sections))
	out := sb.String()

	assert.True(t, strings.HasPrefix(out, "# Sample Configuration\n"))
	assert.Contains(t, out, "## General Settings")
	assert.Contains(t, out, "## OIDC Settings")
	assert.Contains(t, out, "| NAME | `bot` | Name |")
	assert.Contains(t, out, "| TOKEN | `\"\"` | Token |")
}

func TestWriteConfigMapAndSecret(t *testing.T) {
	sections, err := Sections(sample{})
	require.NoError(t, err)

	var cmOut strings.Builder
	require.NoError(t, WriteConfigMap(&cmOut, "shortnote-bot", sections))
	require.True(t, strings.HasPrefix(cmOut.String(), "---\n"))

	var cm corev1.ConfigMap
	require.NoError(t, yaml.Unmarshal([]byte(strings.TrimPrefix(cmOut.String(), "---\n")), &cm))
	assert.Equal(t, "ConfigMap", cm.Kind)
	assert.Equal(t, "shortnote-bot", cm.Name)
	assert.Equal(t, map[string]string{"NAME": "bot", "HOSTS": "a,b", "OIDC_ENABLE": "false"}, cm.Data)

	var secretOut strings.Builder
	require.NoError(t, WriteSecret(&secretOut, "shortnote-bot", sections))

	var secret corev1.Secret
	require.NoError(t, yaml.Unmarshal([]byte(strings.TrimPrefix(secretOut.String(), "---\n")), &secret))
	assert.Equal(t, corev1.SecretTypeOpaque, secret.Type)
	assert.Equal(t, map[string]string{"TOKEN": "", "OIDC_SECRET": ""}, secret.StringData)
}
