// cmd/tools/knowledge-tool/main.go
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"medibot/internal/common/logger"
	"medibot/internal/conversation"
	"medibot/internal/knowledge"
	"medibot/internal/triage"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	askCmd := flag.NewFlagSet("ask", flag.ExitOnError)
	chatCmd := flag.NewFlagSet("chat", flag.ExitOnError)

	// Validate command flags
	symValidate := validateCmd.String("symptoms", "configs/knowledge/symptoms.json", "Path to symptom table")
	topValidate := validateCmd.String("topics", "configs/knowledge/health_topics.yaml", "Path to topic table")
	strict := validateCmd.Bool("strict", false, "Fail when any table falls back to the built-in defaults")

	// Ask command flags
	symAsk := askCmd.String("symptoms", "configs/knowledge/symptoms.json", "Path to symptom table")
	topAsk := askCmd.String("topics", "configs/knowledge/health_topics.yaml", "Path to topic table")

	// Chat command flags
	symChat := chatCmd.String("symptoms", "configs/knowledge/symptoms.json", "Path to symptom table")
	topChat := chatCmd.String("topics", "configs/knowledge/health_topics.yaml", "Path to topic table")
	export := chatCmd.String("export", "", "Write the conversation as JSON to this file on exit")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	log := logger.NewZapAdapter(logger.New("warn", "console", "stderr"))

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		store := knowledge.NewStore(knowledge.NewLoader(*symValidate, *topValidate, log), log)
		if err := validateTables(os.Stdout, store.Snapshot(), *strict); err != nil {
			fmt.Printf("Knowledge validation failed: %v\n", err)
			os.Exit(1)
		}

	case "ask":
		askCmd.Parse(os.Args[2:])
		message := strings.Join(askCmd.Args(), " ")
		store := knowledge.NewStore(knowledge.NewLoader(*symAsk, *topAsk, log), log)
		if err := ask(os.Stdout, triage.NewResponder(store), message); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "chat":
		chatCmd.Parse(os.Args[2:])
		store := knowledge.NewStore(knowledge.NewLoader(*symChat, *topChat, log), log)
		history := chat(os.Stdin, os.Stdout, triage.NewResponder(store))
		if *export != "" {
			if err := exportLog(history, *export); err != nil {
				fmt.Printf("Error exporting conversation: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Conversation written to %s\n", *export)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

// validateTables prints one line per table. With strict, a table served from
// the built-in defaults is an error.
func validateTables(w io.Writer, snap *knowledge.Snapshot, strict bool) error {
	var fallbacks []string
	for _, table := range []string{knowledge.TableSymptoms, knowledge.TableTopics} {
		src := snap.Sources[table]
		origin := src.Path
		if src.Fallback {
			origin = "built-in defaults"
			fallbacks = append(fallbacks, table)
		}
		fmt.Fprintf(w, "%-8s %3d entries from %s\n", table, src.Entries, origin)
	}

	if strict && len(fallbacks) > 0 {
		return fmt.Errorf("tables using defaults: %s", strings.Join(fallbacks, ", "))
	}
	fmt.Fprintln(w, "Knowledge validation passed.")
	return nil
}

func ask(w io.Writer, responder *triage.Responder, message string) error {
	data, err := responder.Respond(message, nil).JSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// chat answers one message per input line until EOF or "quit".
func chat(r io.Reader, w io.Writer, responder *triage.Responder) conversation.Log {
	var history conversation.Log

	fmt.Fprintln(w, responder.Respond("", nil).Message)
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "quit") {
			break
		}

		var res *triage.Result
		res, history = responder.Converse(history, line)
		fmt.Fprintf(w, "[%s] %s\n\n", res.Category, res.Message)
	}

	stats := history.Stats()
	fmt.Fprintf(w, "\n%d messages, %d answered\n", stats.Total, stats.Assistant)
	return history
}

func exportLog(history conversation.Log, path string) error {
	data, err := history.ExportJSON()
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write conversation file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: knowledge-tool <command> [flags]

Commands:
  validate  Load the knowledge tables and report what would be served
  ask       Answer a single message and print the result as JSON
  chat      Answer messages read from stdin, one per line
  help      Show this help message

Examples:
  knowledge-tool validate -strict
  knowledge-tool ask -topics configs/knowledge/health_topics.yaml "I have a headache"
  knowledge-tool chat -export conversation.json

Use 'knowledge-tool <command> -h' for more information about a command.
` + "\n")
}
