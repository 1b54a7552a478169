package engagement

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT HEALTH MONITOR
//
// Детектирует устойчивый спад вовлечённости и классифицирует срочность.
// Монитор намеренно консервативен и без состояния: не помнит ранее
// выданных предупреждений, без подавления и cooldown — каждый заход
// на дашборд пересчитывает всё с нуля. Пересчёт дешёвый, данные
// статичны в пределах сессии, кеш не нужен.
// ══════════════════════════════════════════════════════════════════════════════

// Level определяет срочность предупреждения.
type Level string

const (
	// LevelWarning - умеренный спад, стоит присмотреться.
	LevelWarning Level = "warning"

	// LevelCritical - резкий спад или провал ниже абсолютного порога.
	LevelCritical Level = "critical"
)

// IsValid проверяет корректность уровня.
func (l Level) IsValid() bool {
	return l == LevelWarning || l == LevelCritical
}

// Warning представляет структурированное предупреждение о спаде.
// Никогда не персистится: живёт от загрузки дашборда до следующей.
type Warning struct {
	// Level - срочность.
	Level Level `json:"level"`

	// Message - человекочитаемое описание: какой период, какая величина.
	Message string `json:"message"`

	// Suggestions - рекомендуемые действия, по срочности.
	Suggestions []string `json:"suggestions"`
}

// Thresholds содержит пороги детектирования спада.
//
// Точные значения в продукте не задокументированы и восстановлены по
// наблюдаемому поведению (critical при провале ниже абсолютного пола,
// warning при падении больше дельты к прошлому периоду) — поэтому они
// конфигурируемые параметры, а не зашитые константы.
type Thresholds struct {
	// CriticalFloor - абсолютный пол: последнее значение ниже → critical.
	CriticalFloor float64

	// WarningDelta - падение к предыдущему периоду больше этой величины → warning.
	WarningDelta float64
}

// DefaultThresholds возвращает пороги, соответствующие наблюдаемому
// поведению продукта.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalFloor: 50,
		WarningDelta:  10,
	}
}

// IsValid проверяет корректность порогов.
func (t Thresholds) IsValid() bool {
	return t.CriticalFloor >= 0 && t.WarningDelta > 0
}

// Monitor вычисляет предупреждения о здоровье вовлечённости.
type Monitor struct {
	thresholds Thresholds
}

// NewMonitor создаёт монитор с заданными порогами.
// Некорректные пороги заменяются значениями по умолчанию.
func NewMonitor(thresholds Thresholds) *Monitor {
	if !thresholds.IsValid() {
		thresholds = DefaultThresholds()
	}
	return &Monitor{thresholds: thresholds}
}

// Check анализирует хвост серии и возвращает предупреждение либо nil.
//
// Правила:
//  1. Меньше 2 точек → nil (недостаточно данных для тренда, не ошибка).
//  2. Последнее значение ниже CriticalFloor → critical.
//  3. Последнее значение упало больше чем на WarningDelta к предыдущему → warning.
//  4. Иначе (ровно или рост) → nil.
//
// Чистая функция без побочных эффектов; ошибок не возвращает никогда —
// "нет мнения" выражается как nil, и вызывающий обязан трактовать его
// как "нечего показывать", а не как сбой.
func (m *Monitor) Check(series Series) *Warning {
	latest, ok := series.Latest()
	if !ok {
		return nil
	}
	previous, ok := series.Previous()
	if !ok {
		return nil
	}

	isLow := latest.Value < m.thresholds.CriticalFloor
	isDeclining := latest.Value < previous.Value-m.thresholds.WarningDelta

	switch {
	case isLow:
		return &Warning{
			Level: LevelCritical,
			Message: fmt.Sprintf(
				"Critical: engagement in %s is %.0f%%, below the %.0f%% floor. Immediate action recommended.",
				latest.Period, latest.Value, m.thresholds.CriticalFloor,
			),
			Suggestions: criticalSuggestions(),
		}
	case isDeclining:
		return &Warning{
			Level: LevelWarning,
			Message: fmt.Sprintf(
				"Warning: engagement dropped %.0f points between %s and %s. Consider targeted outreach.",
				previous.Value-latest.Value, previous.Period, latest.Period,
			),
			Suggestions: warningSuggestions(),
		}
	default:
		return nil
	}
}

func criticalSuggestions() []string {
	return []string{
		"Send engagement emails to inactive students",
		"Promote upcoming events",
		"Reach out to alumni for mentorship opportunities",
		"Analyze student feedback for improvement areas",
	}
}

func warningSuggestions() []string {
	return []string{
		"Promote upcoming events",
		"Reach out to alumni for mentorship opportunities",
		"Analyze student feedback for improvement areas",
	}
}
