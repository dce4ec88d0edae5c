// cmd/tools/form-registry/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"visitor-registration/pkg/registry"
)

const defaultPath = "configs/form-registry.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	exportPath := exportCmd.String("path", defaultPath, "Path to write the registry file")
	validatePath := validateCmd.String("path", defaultPath, "Path to registry file")
	listPath := listCmd.String("path", defaultPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		reg, err := registry.Build(time.Now())
		if err != nil {
			fmt.Printf("Error resolving forms: %v\n", err)
			os.Exit(1)
		}
		if err := registry.SaveRegistry(reg, *exportPath); err != nil {
			fmt.Printf("Error saving registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d forms to %s\n", len(reg.Forms), *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		problems := registry.Validate(reg)
		if len(problems) > 0 {
			fmt.Println("Registry validation failed:")
			for _, p := range problems {
				fmt.Printf("  - %s\n", p)
			}
			os.Exit(1)
		}
		fmt.Println("Registry validation successful.")

	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*listPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry %s (updated %s)\n", reg.Version, reg.LastUpdated)
		for _, f := range reg.Forms {
			mode := ""
			if f.Spec != nil {
				mode = string(f.Spec.EntryMode)
			}
			fmt.Printf("  %-32s %s\n", f.ID, mode)
		}

	default:
		help()
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: form-registry <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  export    Write every resolved form of the taxonomy to the registry")
	fmt.Println("  validate  Check the registry for drift against the resolver")
	fmt.Println("  list      Print the forms in the registry")
}
