package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/repetition"
	"github.com/rushteam/learnrec/session"
)

// scheduleRow 是 review / schedule 命令的输出行。
type scheduleRow struct {
	ContentItemID string              `json:"content_item_id"`
	Score         float64             `json:"score"`
	ReviewCount   int                 `json:"review_count"`
	Mastery       float64             `json:"mastery"`
	Schedule      repetition.Schedule `json:"schedule"`
}

func newScheduleRow(rec *core.PerformanceRecord, s repetition.Schedule) scheduleRow {
	return scheduleRow{
		ContentItemID: rec.ContentItemID,
		Score:         rec.Score,
		ReviewCount:   rec.ReviewCount,
		Mastery:       rec.Mastery(),
		Schedule:      s,
	}
}

func renderSchedules(cmd *cobra.Command, format string, out []scheduleRow) error {
	rows := make([][]string, 0, len(out))
	for _, r := range out {
		due := "no"
		if r.Schedule.IsDue {
			due = "yes"
		}
		rows = append(rows, []string{
			r.ContentItemID,
			formatFloat(r.Score),
			itoa(r.ReviewCount),
			string(r.Schedule.State),
			r.Schedule.NextReviewDate.UTC().Format(time.RFC3339),
			due,
		})
	}
	return render(cmd.OutOrStdout(), format, out,
		[]string{"CONTENT", "SCORE", "REVIEWS", "STATE", "NEXT REVIEW", "DUE"}, rows)
}

func newReviewCommand(opts *rootOptions) *cobra.Command {
	var (
		learner   string
		content   string
		score     float64
		timeSpent float64
		quizPath  string
	)
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Record a review result and show the next review date",
		Long: `Record the outcome of a quiz or reading session.

With --quiz the score and time spent are taken from a quiz answers file
(correct ratio, and started_at until now).

Examples:
  learnrec review --learner u1 --content calc-101 --score 80 --time-spent 240
  learnrec review --learner u1 --quiz answers.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var quiz *session.Quiz
			if quizPath != "" {
				q, err := loadQuiz(quizPath, learner, content)
				if err != nil {
					return err
				}
				quiz = &q
			} else if content == "" {
				return core.ErrInvalidInput(core.ModuleEngine, "--content is required without --quiz")
			}

			a, err := openApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			var rec *core.PerformanceRecord
			if quiz != nil {
				rec, err = a.engine.CompleteQuiz(cmd.Context(), *quiz)
			} else {
				rec, err = a.engine.RecordReview(cmd.Context(), learner, content, score, timeSpent)
			}
			if err != nil {
				return err
			}
			s, err := a.engine.ScheduleNextReview(rec)
			if err != nil {
				return err
			}
			return renderSchedules(cmd, opts.outputFmt, []scheduleRow{newScheduleRow(rec, s)})
		},
	}
	cmd.Flags().StringVar(&learner, "learner", "", "learner id")
	cmd.Flags().StringVar(&content, "content", "", "content item id (overrides the quiz file)")
	cmd.Flags().Float64Var(&score, "score", 0, "score in [0,100]")
	cmd.Flags().Float64Var(&timeSpent, "time-spent", 0, "time spent in seconds")
	cmd.Flags().StringVar(&quizPath, "quiz", "", "quiz answers file (YAML)")
	_ = cmd.MarkFlagRequired("learner")
	cmd.MarkFlagsOneRequired("score", "quiz")
	cmd.MarkFlagsMutuallyExclusive("score", "quiz")
	cmd.MarkFlagsMutuallyExclusive("time-spent", "quiz")
	return cmd
}

// quizFile 是 --quiz 的文件格式：
//
//	content_item_id: calc-101
//	subject: Calculus
//	started_at: 2026-03-10T11:55:00Z
//	answers:
//	  - question_id: q1
//	    correct: true
type quizFile struct {
	ContentItemID string           `yaml:"content_item_id"`
	Subject       string           `yaml:"subject"`
	StartedAt     time.Time        `yaml:"started_at"`
	Answers       []session.Answer `yaml:"answers"`
}

// loadQuiz 读取答题文件并重放作答，content 非空时覆盖文件中的内容 ID。
func loadQuiz(path, learner, content string) (session.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Quiz{}, fmt.Errorf("read quiz: %w", err)
	}
	var f quizFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return session.Quiz{}, fmt.Errorf("parse quiz %s: %w", path, err)
	}
	if content != "" {
		f.ContentItemID = content
	}
	if f.ContentItemID == "" {
		return session.Quiz{}, core.ErrInvalidInput(core.ModuleEngine, "quiz %s: content_item_id is required", path)
	}
	if f.StartedAt.IsZero() {
		return session.Quiz{}, core.ErrInvalidInput(core.ModuleEngine, "quiz %s: started_at is required", path)
	}

	q := session.Start(learner, f.ContentItemID, f.Subject, f.StartedAt)
	for _, ans := range f.Answers {
		if ans.QuestionID == "" {
			return session.Quiz{}, core.ErrInvalidInput(core.ModuleEngine, "quiz %s: answer without question_id", path)
		}
		q = q.Answer(ans.QuestionID, ans.Correct)
	}
	return q, nil
}

func newScheduleCommand(opts *rootOptions) *cobra.Command {
	var (
		learner string
		dueOnly bool
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the spaced-repetition schedule of a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			perfs, err := a.perf.ListPerformances(cmd.Context(), learner)
			if err != nil {
				return err
			}
			out := make([]scheduleRow, 0, len(perfs))
			for _, rec := range perfs {
				s, err := a.engine.ScheduleNextReview(rec)
				if err != nil {
					return err
				}
				if dueOnly && !s.IsDue {
					continue
				}
				out = append(out, newScheduleRow(rec, s))
			}
			return renderSchedules(cmd, opts.outputFmt, out)
		},
	}
	cmd.Flags().StringVar(&learner, "learner", "", "learner id")
	cmd.Flags().BoolVar(&dueOnly, "due-only", false, "only show reviews that are due")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}
