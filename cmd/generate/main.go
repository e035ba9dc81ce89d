package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	config "github.com/shortnote/shortnote-bot/config"
	docgen "github.com/shortnote/shortnote-bot/internal/docgen"
)

const appName = "shortnote-bot"

var (
	output string
	_type  string
)

func init() {
	flag.StringVar(&output, "output", "", "Path to the output file")
	flag.StringVar(&_type, "type", "", "The type of the file to generate (Env, ConfigMap, Secret, or MD)")
}

func main() {
	flag.Parse()

	if output == "" || _type == "" {
		fmt.Println("Both -output and -type must be specified")
		os.Exit(1)
	}

	sections, err := docgen.Sections(config.Config{})
	if err != nil {
		fmt.Printf("Error reading configuration: %v\n", err)
		os.Exit(1)
	}

	var buf bytes.Buffer
	switch _type {
	case "Env":
		err = docgen.WriteEnv(&buf, sections)
	case "ConfigMap":
		err = docgen.WriteConfigMap(&buf, appName, sections)
	case "Secret":
		err = docgen.WriteSecret(&buf, appName, sections)
	case "MD":
		err = docgen.WriteMarkdown(&buf, "Shortnote Bot", sections)
	default:
		fmt.Println("Invalid type specified")
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error generating %s: %v\n", _type, err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
}
