package docgen

import (
	"fmt"
	"io"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

// WriteEnv renders a .env example with every setting at its default.
func WriteEnv(w io.Writer, sections []Section) error {
	var sb strings.Builder
	for i, section := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "# %s settings\n", section.Title)
		for _, s := range section.Settings {
			fmt.Fprintf(&sb, "%s=%s\n", s.Env, s.Default)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteMarkdown renders the configuration reference table per section.
func WriteMarkdown(w io.Writer, appName string, sections []Section) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Configuration\n", appName)

	for _, section := range sections {
		fmt.Fprintf(&sb, "\n## %s Settings\n\n", section.Title)
		sb.WriteString("| Environment Variable | Default Value | Description |\n")
		sb.WriteString("|---------------------|---------------|-------------|\n")
		for _, s := range section.Settings {
			def := "`" + s.Default + "`"
			if s.Default == "" {
				def = "`\"\"`"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", s.Env, def, s.Description)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func objectMeta(name string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      name,
		Namespace: name,
		Labels:    map[string]string{"app": name},
	}
}

// WriteConfigMap renders the non secret settings as a Kubernetes ConfigMap.
func WriteConfigMap(w io.Writer, name string, sections []Section) error {
	cm := corev1.ConfigMap{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: objectMeta(name),
		Data:       map[string]string{},
	}
	for _, section := range sections {
		for _, s := range section.Settings {
			if !s.Secret {
				cm.Data[s.Env] = s.Default
			}
		}
	}
	return writeManifest(w, cm)
}

// WriteSecret renders the secret settings, all empty, as a Kubernetes Secret.
func WriteSecret(w io.Writer, name string, sections []Section) error {
	secret := corev1.Secret{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: objectMeta(name),
		Type:       corev1.SecretTypeOpaque,
		StringData: map[string]string{},
	}
	for _, section := range sections {
		for _, s := range section.Settings {
			if s.Secret {
				secret.StringData[s.Env] = ""
			}
		}
	}
	return writeManifest(w, secret)
}

func writeManifest(w io.Writer, obj interface{}) error {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
