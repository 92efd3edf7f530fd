package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status задачи. Набор значений закрыт.
type Status int

const (
	StatusPendente Status = iota
	StatusFinalizado
)

var ErrInvalidStatus = errors.New("invalid status")

func (s Status) String() string {
	switch s {
	case StatusPendente:
		return "Pendente"
	case StatusFinalizado:
		return "Finalizado"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendente, StatusFinalizado:
		return true
	default:
		return false
	}
}

// ParseStatus принимает число ("1") или имя ("Finalizado", регистр не важен)
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if s := Status(n); s.Valid() {
			return s, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrInvalidStatus, v)
	}
	for _, s := range []Status{StatusPendente, StatusFinalizado} {
		if strings.EqualFold(v, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, v)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Task - запись "Tarefa". Нулевое значение DueDate считается пустой датой.
type Task struct {
	ID          int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Title       string    `json:"titulo" gorm:"column:titulo;not null;default:''"`
	Description string    `json:"descricao" gorm:"column:descricao;not null;default:''"`
	DueDate     time.Time `json:"data" gorm:"column:data;type:timestamp;not null;index"`
	Status      Status    `json:"status" gorm:"column:status;type:integer;not null;default:0"`
}

func (Task) TableName() string {
	return "tarefas"
}

// HasDate сообщает, задана ли дата (не равна минимальному значению)
func (t Task) HasDate() bool {
	return !t.DueDate.IsZero()
}

const dateOutputLayout = "2006-01-02T15:04:05.9999999"

var dateInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate разбирает ISO-8601 дату/время. Значения без смещения читаются как UTC.
// Пустая строка дает нулевую дату.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateInputLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}

// FormatDate форматирует дату без смещения, как ее отдает API
func FormatDate(d time.Time) string {
	return d.UTC().Format(dateOutputLayout)
}

type taskJSON struct {
	ID          int64   `json:"id"`
	Title       string  `json:"titulo"`
	Description string  `json:"descricao"`
	DueDate     *string `json:"data"`
	Status      Status  `json:"status"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	date := FormatDate(t.DueDate)
	return json.Marshal(taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     &date,
		Status:      t.Status,
	})
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var due time.Time
	if raw.DueDate != nil {
		d, err := ParseDate(*raw.DueDate)
		if err != nil {
			return err
		}
		due = d
	}

	*t = Task{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		DueDate:     due,
		Status:      raw.Status,
	}
	return nil
}

// TaskFilter - необязательные предикаты выборки. Пустой фильтр выбирает все.
type TaskFilter struct {
	TitleContains *string
	DueOn         *time.Time
	Status        *Status
}

// DayRange возвращает полуинтервал [начало дня, начало следующего дня) в UTC
func DayRange(d time.Time) (time.Time, time.Time) {
	d = d.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
