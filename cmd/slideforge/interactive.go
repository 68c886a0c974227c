package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/slideforge/slideforge"
	"github.com/slideforge/slideforge/api"
)

// runInteractive walks the user through a single conversion when no input
// flag was given. Quiet mode refuses to prompt.
func runInteractive(cmd *cobra.Command, cli cliOptions, opts slideforge.Options) error {
	if cli.quiet {
		return errors.New("no input given; --quiet disables interactive prompts (use --input)")
	}

	input, err := promptInput()
	if err != nil {
		return err
	}

	opts.Size, err = promptSize(cli.presetsFile)
	if err != nil {
		return err
	}

	opts.Mode, err = promptMode()
	if err != nil {
		return err
	}

	output, confirmed, err := promptOutput()
	if err != nil {
		return err
	}
	opts.Output = output
	if confirmed {
		opts.Force = true
	}

	cli.inputs = []string{input}
	return runBatch(cmd, cli, opts)
}

func promptInput() (string, error) {
	prompt := promptui.Prompt{
		Label: "PDF, image or folder to convert",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("path is required")
			}
			if _, err := os.Stat(strings.TrimSpace(s)); err != nil {
				return fmt.Errorf("not found: %s", s)
			}
			return nil
		},
	}
	input, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func promptSize(presetsFile string) (api.SlideSize, error) {
	presets, err := loadPresets(presetsFile)
	if err != nil {
		return api.SlideSize{}, err
	}

	items := []string{"infer from input"}
	for _, p := range presets {
		items = append(items, p.String())
	}

	sel := promptui.Select{
		Label: "Slide size",
		Items: items,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return api.SlideSize{}, err
	}
	if idx == 0 {
		return api.SlideSize{}, nil
	}
	return presets[idx-1], nil
}

func promptMode() (api.Mode, error) {
	sel := promptui.Select{
		Label: "Placement",
		Items: []string{
			"fit - show the whole image, background may show",
			"fill - cover the slide, crop the overflow",
		},
	}
	idx, _, err := sel.Run()
	if err != nil {
		return api.ModeFit, err
	}
	if idx == 1 {
		return api.ModeFill, nil
	}
	return api.ModeFit, nil
}

// promptOutput asks for an output name and, when the target already
// exists, for overwrite confirmation. It reports whether overwriting was
// confirmed.
func promptOutput() (string, bool, error) {
	prompt := promptui.Prompt{
		Label:   "Output name (empty derives it from the input)",
		Default: "",
	}
	output, err := prompt.Run()
	if err != nil {
		return "", false, err
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return "", false, nil
	}

	target := output
	if !strings.EqualFold(filepath.Ext(target), ".pptx") {
		target += ".pptx"
	}
	if _, err := os.Stat(target); err == nil {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("%s exists, overwrite", target),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			return "", false, errors.New("aborted")
		}
		return output, true, nil
	}
	return output, false, nil
}
