// Package session 提供测验会话的值对象。
//
// Quiz 是不可变值：每次作答返回新的 Quiz，调用方自行持有（按学习者存放在自己的存储中），
// 包内不保存任何进程级状态。
package session

import (
	"time"

	"github.com/rushteam/learnrec/core"
	"github.com/rushteam/learnrec/repetition"
)

// Answer 是一道题的作答结果。
type Answer struct {
	QuestionID string `json:"question_id" yaml:"question_id"`
	Correct    bool   `json:"correct" yaml:"correct"`
}

// Quiz 是一次针对某个内容条目的测验。
type Quiz struct {
	LearnerID     string    `json:"learner_id" yaml:"learner_id"`
	ContentItemID string    `json:"content_item_id" yaml:"content_item_id"`
	Subject       string    `json:"subject" yaml:"subject"`
	StartedAt     time.Time `json:"started_at" yaml:"started_at"`
	Answers       []Answer  `json:"answers" yaml:"answers"`
}

// Start 开始一次测验。
func Start(learnerID, contentItemID, subject string, now time.Time) Quiz {
	return Quiz{
		LearnerID:     learnerID,
		ContentItemID: contentItemID,
		Subject:       subject,
		StartedAt:     now,
	}
}

// Answer 记录一道题的作答并返回新的 Quiz；同一题重复作答时以最后一次为准。
func (q Quiz) Answer(questionID string, correct bool) Quiz {
	answers := make([]Answer, 0, len(q.Answers)+1)
	for _, a := range q.Answers {
		if a.QuestionID != questionID {
			answers = append(answers, a)
		}
	}
	q.Answers = append(answers, Answer{QuestionID: questionID, Correct: correct})
	return q
}

// Correct 返回答对的题数。
func (q Quiz) Correct() int {
	n := 0
	for _, a := range q.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// Score 返回正确率（0-100），没有作答时为 0。
func (q Quiz) Score() float64 {
	if len(q.Answers) == 0 {
		return 0
	}
	return float64(q.Correct()) / float64(len(q.Answers)) * 100
}

// Elapsed 返回从开始到 now 的耗时，不会为负。
func (q Quiz) Elapsed(now time.Time) time.Duration {
	if d := now.Sub(q.StartedAt); d > 0 {
		return d
	}
	return 0
}

// Complete 结束测验，基于 prev（可为 nil）生成新的学习记录。
func (q Quiz) Complete(prev *core.PerformanceRecord, now time.Time) (*core.PerformanceRecord, error) {
	return repetition.ApplyReview(prev, q.ContentItemID, q.Score(), q.Elapsed(now).Seconds(), now)
}
