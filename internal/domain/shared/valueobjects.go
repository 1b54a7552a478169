// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// ProfileID represents a unique stakeholder/member identifier (UUID format).
type ProfileID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the profile ID is a valid UUID.
func (p ProfileID) IsValid() bool {
	return uuidRegex.MatchString(string(p))
}

// String returns the string representation.
func (p ProfileID) String() string {
	return string(p)
}

// IsEmpty checks if the ID is empty.
func (p ProfileID) IsEmpty() bool {
	return p == ""
}

// NewProfileID creates a new ProfileID with validation.
func NewProfileID(id string) (ProfileID, error) {
	pid := ProfileID(strings.ToLower(strings.TrimSpace(id)))
	if !pid.IsValid() {
		return "", NewDomainError("shared", "NewProfileID", ErrInvalidID, "invalid profile ID format")
	}
	return pid, nil
}

// SubjectID represents a unique identifier of an invitation subject
// (an event, a guest lecture, or a competition).
type SubjectID string

// IsValid checks if the subject ID is not empty.
func (s SubjectID) IsValid() bool {
	return len(s) > 0
}

// String returns the string representation.
func (s SubjectID) String() string {
	return string(s)
}

// ═══════════════════════════════════════════════════════════════════════════
// Email Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Email represents a validated email address.
type Email string

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValid checks if the email has a plausible format.
func (e Email) IsValid() bool {
	return emailRegex.MatchString(string(e))
}

// String returns the string representation.
func (e Email) String() string {
	return string(e)
}

// Normalize returns a normalized (lowercase) version of the email.
func (e Email) Normalize() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

// NewEmail creates a new Email with validation.
func NewEmail(addr string) (Email, error) {
	e := Email(addr).Normalize()
	if !e.IsValid() {
		return "", NewDomainError("shared", "NewEmail", ErrInvalidFormat, fmt.Sprintf("invalid email: %q", addr))
	}
	return e, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// SkillSet Value Object
// ═══════════════════════════════════════════════════════════════════════════

// SkillSet представляет неупорядоченный набор навыков/тем (free-text теги).
// Хранение не навязывает канонический регистр: сравнение всегда
// регистронезависимое, дубликаты семантически не значимы.
//
// SkillSet — единственное, что движок подбора видит у профиля:
// всё остальное (компания, должность, био) для него непрозрачно.
type SkillSet []string

// NewSkillSet создаёт SkillSet из списка строк, отбрасывая пустые элементы
// и дубликаты (регистронезависимо), сохраняя порядок первого вхождения.
func NewSkillSet(skills ...string) SkillSet {
	set := make(SkillSet, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		set = append(set, s)
	}
	return set
}

// IsEmpty возвращает true, если набор пуст.
func (s SkillSet) IsEmpty() bool {
	return len(s) == 0
}

// Len возвращает количество уникальных навыков.
func (s SkillSet) Len() int {
	return len(s)
}

// Contains проверяет наличие навыка (регистронезависимо).
func (s SkillSet) Contains(skill string) bool {
	needle := strings.ToLower(strings.TrimSpace(skill))
	for _, have := range s {
		if strings.ToLower(have) == needle {
			return true
		}
	}
	return false
}

// Index возвращает множество нормализованных навыков для быстрых пересечений.
func (s SkillSet) Index() map[string]struct{} {
	idx := make(map[string]struct{}, len(s))
	for _, skill := range s {
		idx[strings.ToLower(skill)] = struct{}{}
	}
	return idx
}

// Intersect возвращает навыки ИЗ ТЕКУЩЕГО набора, которые присутствуют
// в other (регистронезависимо). Порядок и регистр берутся из текущего
// набора — это важно: при показе "пересёкшихся навыков" UI отображает
// формулировку кандидата, а не организатора.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	if len(s) == 0 || len(other) == 0 {
		return SkillSet{}
	}
	idx := other.Index()
	out := make(SkillSet, 0, len(s))
	for _, skill := range s {
		if _, ok := idx[strings.ToLower(skill)]; ok {
			out = append(out, skill)
		}
	}
	return out
}

// ContainsAll проверяет, что все навыки из other присутствуют в наборе.
func (s SkillSet) ContainsAll(other SkillSet) bool {
	idx := s.Index()
	for _, skill := range other {
		if _, ok := idx[strings.ToLower(skill)]; !ok {
			return false
		}
	}
	return true
}

// Strings возвращает копию набора как срез строк.
func (s SkillSet) Strings() []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Join возвращает навыки одной строкой через разделитель.
func (s SkillSet) Join(sep string) string {
	return strings.Join(s, sep)
}

// ═══════════════════════════════════════════════════════════════════════════
// Rating Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Rating represents a feedback rating (1.0 - 5.0 stars).
type Rating float64

// IsValid checks if the rating is within the valid range.
// Zero is allowed and means "no rating yet".
func (r Rating) IsValid() bool {
	return r == 0 || (r >= 1.0 && r <= 5.0)
}

// Float64 returns the underlying float64 value.
func (r Rating) Float64() float64 {
	return float64(r)
}

// String returns the rating formatted to two decimals.
func (r Rating) String() string {
	return fmt.Sprintf("%.2f", float64(r))
}
