package client

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"plantao-ops/internal/analytics"
	"plantao-ops/internal/models"
)

// list builds the loader for a GET collection endpoint.
func list[T any](c *Client, path string) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		var out []T
		if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (c *Client) ShiftStudents(ctx context.Context) ([]*models.ShiftStudent, error) {
	return c.shiftStudents.get(ctx, list[*models.ShiftStudent](c, "/api/shift-students"))
}

func (c *Client) Shifts(ctx context.Context) ([]*models.Shift, error) {
	return c.shifts.get(ctx, list[*models.Shift](c, "/api/shifts"))
}

func (c *Client) Attempts(ctx context.Context) ([]*models.Attempt, error) {
	return c.attempts.get(ctx, list[*models.Attempt](c, "/api/attempts"))
}

func (c *Client) AfterShift(ctx context.Context) ([]*models.AfterShiftForm, error) {
	return c.afterShift.get(ctx, list[*models.AfterShiftForm](c, "/api/after-shift"))
}

func (c *Client) Feedback(ctx context.Context) ([]*models.Feedback, error) {
	return c.feedback.get(ctx, list[*models.Feedback](c, "/api/feedback"))
}

// CachedShifts returns the shift cache without fetching.
func (c *Client) CachedShifts() ([]*models.Shift, bool) {
	return c.shifts.cached()
}

// BookShift shows the booking as Em Aberto in the cached shift list while the
// request is in flight. Both outcomes invalidate the shift and student caches.
func (c *Client) BookShift(ctx context.Context, studentID, date string, notes *string) (*models.Shift, error) {
	pending := &models.Shift{StudentID: studentID, Date: date, Status: models.ShiftOpen, Notes: notes}
	c.shifts.overlay(func(items []*models.Shift) []*models.Shift {
		return append(items, pending)
	})
	defer c.shiftStudents.invalidate()
	defer c.shifts.invalidate()

	var created models.Shift
	err := c.do(ctx, http.MethodPost, "/api/shifts", map[string]interface{}{
		"id_aluno":     studentID,
		"data_plantao": date,
		"observacoes":  notes,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateShiftStatus sets status optimistically on the cached row.
func (c *Client) UpdateShiftStatus(ctx context.Context, studentID, date, status string) (*models.Shift, error) {
	c.shifts.overlay(func(items []*models.Shift) []*models.Shift {
		out := make([]*models.Shift, len(items))
		for i, s := range items {
			if s.StudentID == studentID && s.Date == date {
				copied := *s
				copied.Status = status
				s = &copied
			}
			out[i] = s
		}
		return out
	})
	defer c.shifts.invalidate()

	var updated models.Shift
	path := "/api/shifts/" + segment(studentID) + "/" + segment(date)
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"status": status}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CancelShift deletes a booking, hiding it from the cached list first.
func (c *Client) CancelShift(ctx context.Context, studentID, date string) error {
	c.shifts.overlay(func(items []*models.Shift) []*models.Shift {
		out := items[:0:0]
		for _, s := range items {
			if s.StudentID != studentID || s.Date != date {
				out = append(out, s)
			}
		}
		return out
	})
	defer c.shiftStudents.invalidate()
	defer c.shifts.invalidate()

	return c.do(ctx, http.MethodDelete, "/api/shifts/"+segment(studentID)+"/"+segment(date), nil, nil)
}

func (c *Client) LogAttempt(ctx context.Context, studentID, desiredDate string, achievedDate *string) (*models.Attempt, error) {
	c.attempts.overlay(func(items []*models.Attempt) []*models.Attempt {
		return append(items, &models.Attempt{StudentID: studentID, DesiredDate: desiredDate, AchievedDate: achievedDate})
	})
	defer c.shiftStudents.invalidate()
	defer c.attempts.invalidate()

	var created models.Attempt
	err := c.do(ctx, http.MethodPost, "/api/attempts", map[string]interface{}{
		"id_aluno":        studentID,
		"data_desejada":   desiredDate,
		"data_conseguida": achievedDate,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RecordAfterShift submits a post-shift form. The server rewrites the shift
// status, so the shift cache is dropped too.
func (c *Client) RecordAfterShift(ctx context.Context, form *models.AfterShiftForm) (*models.AfterShiftForm, error) {
	c.afterShift.overlay(func(items []*models.AfterShiftForm) []*models.AfterShiftForm {
		return append(items, form)
	})
	defer c.shifts.invalidate()
	defer c.afterShift.invalidate()

	var created models.AfterShiftForm
	if err := c.do(ctx, http.MethodPost, "/api/after-shift", form, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Dashboard fetches the server-computed dashboard. query may carry from, to,
// granularity and weekStart.
func (c *Client) Dashboard(ctx context.Context, query url.Values) (*analytics.Dashboard, error) {
	path := "/api/analytics/dashboard"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var d analytics.Dashboard
	if err := c.do(ctx, http.MethodGet, path, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// FetchCollections loads every analytics input concurrently, through the caches.
func (c *Client) FetchCollections(ctx context.Context) (analytics.Input, error) {
	var in analytics.Input
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { in.Students, err = c.ShiftStudents(ctx); return })
	g.Go(func() (err error) { in.Shifts, err = c.Shifts(ctx); return })
	g.Go(func() (err error) { in.Attempts, err = c.Attempts(ctx); return })
	g.Go(func() (err error) { in.Forms, err = c.AfterShift(ctx); return })
	g.Go(func() (err error) { in.Feedback, err = c.Feedback(ctx); return })
	if err := g.Wait(); err != nil {
		return analytics.Input{}, err
	}
	return in, nil
}
