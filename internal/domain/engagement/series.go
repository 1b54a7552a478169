// Package engagement содержит мониторинг здоровья вовлечённости CMIS Engagement Hub.
// Философия: администратор должен узнавать о спаде вовлечённости из
// проактивного предупреждения, а не разглядывая падающий график.
package engagement

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT SERIES
// ══════════════════════════════════════════════════════════════════════════════

// Point представляет одно наблюдение агрегированной метрики вовлечённости.
type Point struct {
	// Period - метка периода (например, "Jan", "Feb", "2026-W12").
	Period string `json:"period"`

	// Value - значение метрики вовлечённости за период.
	Value float64 `json:"value"`
}

// Series представляет хронологическую последовательность наблюдений.
// Пропуски между периодами не предполагаются, но и не требуются.
type Series []Point

// Len возвращает количество точек.
func (s Series) Len() int {
	return len(s)
}

// IsEmpty возвращает true, если наблюдений нет.
func (s Series) IsEmpty() bool {
	return len(s) == 0
}

// Latest возвращает последнюю точку; ok == false для пустой серии.
func (s Series) Latest() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Previous возвращает предпоследнюю точку; ok == false, если точек < 2.
func (s Series) Previous() (Point, bool) {
	if len(s) < 2 {
		return Point{}, false
	}
	return s[len(s)-2], true
}

// Tail возвращает последние n точек (все, если точек меньше n).
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// FeedbackEntry представляет один отзыв (студента о событии или судьи
// о соревновании), участвующий в агрегатах аналитики.
type FeedbackEntry struct {
	ID          string
	SubjectID   string
	AuthorID    string
	Rating      float64
	Comments    string
	SubmittedAt time.Time
}

// Repository определяет доступ к данным вовлечённости.
type Repository interface {
	// CurrentSeries возвращает текущий скользящий ряд вовлечённости.
	CurrentSeries(ctx context.Context) (Series, error)

	// StudentFeedback возвращает отзывы студентов о событиях.
	StudentFeedback(ctx context.Context) ([]FeedbackEntry, error)

	// JudgeFeedback возвращает отзывы судей о соревнованиях.
	JudgeFeedback(ctx context.Context) ([]FeedbackEntry, error)
}
