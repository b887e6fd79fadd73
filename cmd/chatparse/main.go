// Command chatparse is a small exerciser for
// github.com/go-skynet/chatparser/pkg/chatparser: it reads a raw completion
// body from stdin and prints the parsed ChatMessage as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-skynet/chatparser/pkg/chatconfig"
	"github.com/go-skynet/chatparser/pkg/chatparser"
	_ "github.com/go-skynet/chatparser/pkg/dialect"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	dialectName string
	promptFile  string
	presetFile  string
	partial     bool
)

var rootCmd = &cobra.Command{
	Use:   "chatparse",
	Short: "Parse a streaming chat-completion body into a structured message",
	RunE:  runParse,
}

func init() {
	rootCmd.Flags().StringVarP(&dialectName, "dialect", "d", "generic", "dialect preset name (see the list-dialects command)")
	rootCmd.Flags().StringVar(&promptFile, "prompt-file", "", "path to the prompt used to generate the completion, for thinking-token detection")
	rootCmd.Flags().StringVar(&presetFile, "presets", "", "path to a YAML file of dialect preset overrides")
	rootCmd.Flags().BoolVar(&partial, "partial", false, "treat input as a not-yet-complete stream")
	rootCmd.AddCommand(listDialectsCmd)
}

var listDialectsCmd = &cobra.Command{
	Use:   "list-dialects",
	Short: "List the known dialect preset names",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range chatconfig.NewRegistry().Names() {
			fmt.Println(name)
		}
	},
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	registry := chatconfig.NewRegistry()
	if presetFile != "" {
		if err := registry.LoadFile(presetFile); err != nil {
			return err
		}
	}

	prompt := ""
	if promptFile != "" {
		data, err := os.ReadFile(promptFile)
		if err != nil {
			log.Error().Err(err).Msgf("cannot read prompt file: %s", promptFile)
			return err
		}
		prompt = string(data)
	}

	syntax, err := registry.Resolve(dialectName, prompt)
	if err != nil {
		return err
	}

	msg, err := chatparser.Parse(string(input), partial, syntax)
	if err != nil {
		return fmt.Errorf("parsing completion: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(msg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("chatparse failed")
		os.Exit(1)
	}
}
