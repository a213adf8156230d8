package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-LessonBookingService/pkg/types"
)

const (
	templatesTable = "availability_templates"
	slotsTable     = "availability_slots"
)

// Repository хранилище недельных расписаний преподавателей
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Replace целиком заменяет расписание преподавателя.
// Вызывать внутри транзакции: иначе читатель может увидеть расписание без слотов.
func (r *Repository) Replace(ctx context.Context, tpl *domain.AvailabilityTemplate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// 1. Заголовок расписания (upsert)
	query, args, err := r.sb.Insert(templatesTable).
		Columns("teacher_id", "updated_at").
		Values(tpl.TeacherID, tpl.UpdatedAt.UTC()).
		Suffix("ON CONFLICT (teacher_id) DO UPDATE SET updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build upsert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - upsert template: %v", ErrExecQuery, err)
	}

	// 2. Удаляем старые слоты
	query, args, err = r.sb.Delete(slotsTable).
		Where(squirrel.Eq{"teacher_id": tpl.TeacherID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - delete slots: %v", ErrExecQuery, err)
	}

	if tpl.IsEmpty() {
		return nil
	}

	// 3. Вставляем новые слоты одним запросом
	insert := r.sb.Insert(slotsTable).
		Columns("teacher_id", "weekday", "position", "start_time", "duration_minutes")

	for _, day := range domain.Weekdays {
		for position, slot := range tpl.SlotsFor(day) {
			insert = insert.Values(tpl.TeacherID, int(day), position, slot.StartTime.String(), slot.DurationMinutes)
		}
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - insert slots: %v", ErrExecQuery, err)
	}

	return nil
}

// Get возвращает расписание преподавателя или ErrAvailabilityNotFound
func (r *Repository) Get(ctx context.Context, teacherID int64) (*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select("updated_at").
		From(templatesTable).
		Where(squirrel.Eq{"teacher_id": teacherID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build template query: %v", ErrBuildQuery, err)
	}

	tpl := domain.EmptyAvailability(teacherID)

	err = executor.QueryRowContext(ctx, query, args...).Scan(&tpl.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan template: %v", ErrScanRow, err)
	}
	tpl.UpdatedAt = tpl.UpdatedAt.UTC()

	query, args, err = r.sb.Select("weekday", "start_time", "duration_minutes").
		From(slotsTable).
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("weekday ASC", "position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build slots query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Get - execute slots query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day      int
			start    types.TimeString
			duration int
		)
		if err := rows.Scan(&day, &start, &duration); err != nil {
			return nil, fmt.Errorf("%w: Get - scan slot: %v", ErrScanRow, err)
		}
		weekday := domain.Weekday(day)
		tpl.WeeklySlots[weekday] = append(tpl.WeeklySlots[weekday], domain.SlotTemplate{
			StartTime:       start,
			DurationMinutes: duration,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Get - rows error: %v", ErrScanRow, err)
	}

	return tpl, nil
}

// ListTeacherIDs преподаватели, у которых сохранено расписание
func (r *Repository) ListTeacherIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select("teacher_id").
		From(templatesTable).
		OrderBy("teacher_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTeacherIDs - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTeacherIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListTeacherIDs - scan: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTeacherIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}
