package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"registration/internal/metrics"
	"registration/internal/queue"
)

// Service implements register, list, update and delete over the repository.
// Register trusts the caller's shape; update requires every field.
type Service struct {
	repo   *Repository
	events queue.Publisher
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a service backed by a repository. events may be nil.
func NewService(repo *Repository, events queue.Publisher, log *slog.Logger) *Service {
	if events == nil {
		events = queue.Discard{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, events: events, log: log, now: time.Now}
}

// Register inserts a new student and returns the assigned id. Absent fields
// are passed to the store as NULL; dob, when present, is normalized first.
func (s *Service) Register(ctx context.Context, in Input) (int64, error) {
	dob := in.DOB
	if dob != nil {
		norm, err := NormalizeDOB(*dob)
		if err != nil {
			metrics.StudentOps.WithLabelValues("register", metrics.ResultInvalid).Inc()
			return 0, err
		}
		dob = &norm
	}

	id, err := s.repo.Insert(ctx, in.FirstName, in.LastName, in.Email, dob, in.RollNumber)
	if err != nil {
		metrics.StudentOps.WithLabelValues("register", metrics.ResultError).Inc()
		return 0, err
	}
	metrics.StudentOps.WithLabelValues("register", metrics.ResultOK).Inc()

	in.DOB = dob
	s.publish(ctx, queue.TypeRegistered, id, in)
	return id, nil
}

// List returns every student.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		metrics.StudentOps.WithLabelValues("list", metrics.ResultError).Inc()
		return nil, err
	}
	metrics.StudentOps.WithLabelValues("list", metrics.ResultOK).Inc()
	return students, nil
}

// Delete removes the student if present. Unknown ids succeed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.StudentOps.WithLabelValues("delete", metrics.ResultError).Inc()
		return err
	}
	metrics.StudentOps.WithLabelValues("delete", metrics.ResultOK).Inc()
	s.publish(ctx, queue.TypeDeleted, id, nil)
	return nil
}

// Update overwrites all five fields of an existing student. Missing fields are
// rejected before the store is touched.
func (s *Service) Update(ctx context.Context, id int64, in Input) error {
	if missing := in.Missing(); len(missing) > 0 {
		metrics.StudentOps.WithLabelValues("update", metrics.ResultInvalid).Inc()
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	dob, err := NormalizeDOB(*in.DOB)
	if err != nil {
		metrics.StudentOps.WithLabelValues("update", metrics.ResultInvalid).Inc()
		return err
	}

	err = s.repo.Update(ctx, id, *in.FirstName, *in.LastName, *in.Email, dob, *in.RollNumber)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.StudentOps.WithLabelValues("update", metrics.ResultNotFound).Inc()
		return err
	case err != nil:
		metrics.StudentOps.WithLabelValues("update", metrics.ResultError).Inc()
		return err
	}
	metrics.StudentOps.WithLabelValues("update", metrics.ResultOK).Inc()

	in.DOB = &dob
	s.publish(ctx, queue.TypeUpdated, id, in)
	return nil
}

// publish hands a change event to the queue. Failures are logged only; the
// write has already succeeded.
func (s *Service) publish(ctx context.Context, typ string, id int64, body any) {
	msg := queue.Message{
		ID:        uuid.NewString(),
		Type:      typ,
		StudentID: id,
		At:        s.now().UTC(),
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.log.Warn("encode event body", slog.String("type", typ), slog.Any("error", err))
		} else {
			msg.Body = raw
		}
	}
	if err := s.events.Publish(ctx, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(typ, metrics.ResultError).Inc()
		s.log.Warn("publish event failed",
			slog.String("type", typ),
			slog.Int64("student_id", id),
			slog.Any("error", err))
		return
	}
	metrics.EventsPublished.WithLabelValues(typ, metrics.ResultOK).Inc()
}

// ParseID parses a path id. Only positive integers are accepted.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
