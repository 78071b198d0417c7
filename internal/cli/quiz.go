package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/chronicle/internal/explorer"
	"github.com/ppiankov/chronicle/internal/model"
	"github.com/ppiankov/chronicle/internal/quiz"
)

var quizRounds int

// quizCmd represents the quiz command
var quizCmd = &cobra.Command{
	Use:   "quiz [source]",
	Short: "Answer multiple-choice questions about the dataset",
	Long: `Quiz asks about the dynasty or cause of death of randomly chosen records.

Answer with the option number, the option text, a unique prefix or a close
spelling. Enter q to stop early.

Example:
  chronicle quiz ./emperors.csv
  chronicle quiz ./emperors.csv --rounds 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuiz,
}

func init() {
	rootCmd.AddCommand(quizCmd)

	quizCmd.Flags().IntVar(&quizRounds, "rounds", 5, "number of questions")
	addSourceFlags(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	if quizRounds < 1 {
		return fmt.Errorf("rounds must be 1 or greater, got %d", quizRounds)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySourceFlags(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	loader, err := newLoader(cfg, newLogger())
	if err != nil {
		return err
	}

	sess, err := loader.Session(ctx, locationArg(args))
	if err != nil {
		return fmt.Errorf("quiz failed: %w", err)
	}

	asked, err := playQuiz(sess, quizRounds, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nScore: %d/%d\n", sess.Score(), asked)
	return nil
}

// playQuiz runs up to rounds questions against in and out and returns how
// many were answered
func playQuiz(sess *explorer.Session, rounds int, in io.Reader, out io.Writer) (int, error) {
	scanner := bufio.NewScanner(in)
	asked := 0

	for asked < rounds {
		var q *model.QuizQuestion
		var err error
		if asked == 0 {
			q, err = sess.StartQuiz()
		} else {
			q, err = sess.NextQuestion()
		}
		if err != nil {
			return asked, fmt.Errorf("pose question: %w", err)
		}

		fmt.Fprintf(out, "\nQuestion %d: what was the %s of %s?\n", asked+1, q.Kind.Prompt(), q.Subject.Name)
		for i, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}

		value, ok := readChoice(scanner, out, q.Options)
		if !ok {
			sess.ResetQuiz()
			return asked, scanner.Err()
		}

		graded, err := sess.Answer(value)
		if err != nil {
			return asked, fmt.Errorf("grade answer: %w", err)
		}
		asked++

		if *graded.Correct {
			fmt.Fprintf(out, "✓ Correct\n")
		} else {
			fmt.Fprintf(out, "✗ Wrong, the answer was %s\n", graded.Answer)
		}
	}

	return asked, nil
}

// readChoice prompts until the input resolves to an option. It returns
// false on end of input or when the player quits.
func readChoice(scanner *bufio.Scanner, out io.Writer, options []string) (string, bool) {
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return "", false
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "q", "quit", "exit":
			return "", false
		}

		if value, ok := quiz.MatchOption(input, options); ok {
			return value, true
		}
		fmt.Fprintf(out, "Please choose 1-%d or type an option.\n", len(options))
	}
}
