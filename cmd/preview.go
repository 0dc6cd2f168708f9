package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmind/internal/difficulty"
	"github.com/abhisek/quizmind/internal/llm"
	"github.com/abhisek/quizmind/internal/questiongen"
	"github.com/abhisek/quizmind/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Answer generated questions on the command line (no database)",
	Long: `Generate and interactively answer questions for a topic.

Nothing is persisted and no LLM events are recorded. Useful for checking
question quality for a provider or model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topicVal, _ := cmd.Flags().GetString("topic")
		levelVal, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")

		topic, err := quiz.ParseTopic(topicVal)
		if err != nil {
			return err
		}
		level, err := quiz.ParseDifficulty(levelVal)
		if err != nil {
			return err
		}

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, nil, nil)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		gen := questiongen.New(provider, questiongen.DefaultConfig())
		_, err = runPreview(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), gen, topic, level, count)
		return err
	},
}

// runPreview asks count questions, adapting the level as it goes, and
// returns the number answered correctly.
func runPreview(ctx context.Context, in io.Reader, w io.Writer, gen questiongen.Generator, topic quiz.Topic, level quiz.Difficulty, count int) (int, error) {
	scanner := bufio.NewScanner(in)
	info, _ := quiz.LookupTopic(topic)

	fmt.Fprintf(w, "Topic: %s (%s)\n", info.Name, level.Label())
	fmt.Fprintf(w, "Generating %d questions...\n\n", count)

	var answers []quiz.Answer
	var prior []string

	for i := 1; i <= count; i++ {
		q, err := gen.Generate(ctx, questiongen.GenerateInput{
			Topic:               topic,
			Difficulty:          level,
			PreviousQuestionIDs: prior,
		})
		if err != nil {
			if ctx.Err() != nil {
				return countCorrect(answers), ctx.Err()
			}
			fmt.Fprintf(w, "Question %d: generation failed: %v\n\n", i, err)
			continue
		}
		prior = append(prior, q.ID)

		fmt.Fprintf(w, "── Question %d/%d · %s ──\n", i, count, level.Label())
		fmt.Fprintln(w, q.Text)
		for _, o := range q.Options {
			fmt.Fprintf(w, "  %s) %s\n", o.ID, o.Text)
		}

		fmt.Fprint(w, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(w, "\n(input closed)")
			break
		}
		choice := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if _, ok := q.Option(choice); !ok {
			fmt.Fprint(w, "(skipped)\n\n")
			continue
		}

		correct, _ := q.CorrectOption()
		a := quiz.Answer{
			QuestionID:       q.ID,
			SelectedOptionID: choice,
			IsCorrect:        choice == correct.ID,
			Difficulty:       level,
		}
		answers = append(answers, a)

		if a.IsCorrect {
			fmt.Fprintln(w, "✓ Correct!")
		} else {
			fmt.Fprintf(w, "✗ Wrong. Answer: %s) %s\n", correct.ID, correct.Text)
		}
		if q.Explanation != "" {
			fmt.Fprintf(w, "Explanation: %s\n", q.Explanation)
		}
		fmt.Fprintln(w)

		level = difficulty.Next(answers, level)
	}

	n := countCorrect(answers)
	fmt.Fprintf(w, "── Summary: %d/%d correct ──\n", n, count)
	return n, nil
}

func countCorrect(answers []quiz.Answer) int {
	n := 0
	for _, a := range answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

func init() {
	previewCmd.Flags().String("topic", string(quiz.TopicGeneralKnowledge), "Topic id")
	previewCmd.Flags().String("difficulty", string(quiz.Medium), "Starting difficulty: easy, medium or hard")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")

	rootCmd.AddCommand(previewCmd)
}
