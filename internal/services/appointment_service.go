package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"salon/internal/amqp"
	"salon/internal/core"
	applog "salon/internal/log"
)

var tracer = otel.Tracer("salon/internal/services")

// AppointmentStore is the persistence used by AppointmentService.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, in core.AppointmentInput) (core.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, patch core.AppointmentPatch) (core.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) (bool, error)
	GetAppointment(ctx context.Context, id int64) (core.Appointment, error)
	ListAppointments(ctx context.Context, f core.AppointmentFilter) ([]core.Appointment, error)
}

// EventPublisher announces committed appointment writes.
type EventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, eventType string, appointmentID int64) error
}

// AppointmentService orchestrates appointment writes across SQLite and AMQP
type AppointmentService struct {
	store     AppointmentStore
	publisher EventPublisher
}

// NewAppointmentService wires the store and an optional publisher; a nil
// publisher disables events.
func NewAppointmentService(store AppointmentStore, publisher EventPublisher) *AppointmentService {
	return &AppointmentService{store: store, publisher: publisher}
}

func (s *AppointmentService) Create(ctx context.Context, in core.AppointmentInput) (core.Appointment, error) {
	ctx, span := tracer.Start(ctx, "AppointmentService.Create")
	defer span.End()

	if err := in.Validate(); err != nil {
		return core.Appointment{}, err
	}
	appt, err := s.store.CreateAppointment(ctx, in)
	if err != nil {
		return core.Appointment{}, spanError(span, fmt.Errorf("save appointment: %w", err))
	}
	span.SetAttributes(
		attribute.Int64("appointment.id", appt.ID),
		attribute.Int64("appointment.total_cents", appt.Total.Cents),
	)

	s.publish(ctx, amqp.EventAppointmentSaved, appt.ID)
	return appt, nil
}

func (s *AppointmentService) Update(ctx context.Context, id int64, patch core.AppointmentPatch) (core.Appointment, error) {
	ctx, span := tracer.Start(ctx, "AppointmentService.Update", trace.WithAttributes(
		attribute.Int64("appointment.id", id),
		attribute.Bool("appointment.replaces_items", patch.ReplacesLineItems()),
	))
	defer span.End()

	if err := patch.Validate(); err != nil {
		return core.Appointment{}, err
	}
	appt, err := s.store.UpdateAppointment(ctx, id, patch)
	if err != nil {
		return core.Appointment{}, spanError(span, fmt.Errorf("update appointment: %w", err))
	}

	s.publish(ctx, amqp.EventAppointmentSaved, appt.ID)
	return appt, nil
}

// Delete removes the appointment. Unknown ids succeed without an event.
func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "AppointmentService.Delete", trace.WithAttributes(attribute.Int64("appointment.id", id)))
	defer span.End()

	removed, err := s.store.DeleteAppointment(ctx, id)
	if err != nil {
		return spanError(span, fmt.Errorf("delete appointment: %w", err))
	}
	if removed {
		s.publish(ctx, amqp.EventAppointmentDeleted, id)
	}
	return nil
}

func (s *AppointmentService) Get(ctx context.Context, id int64) (core.Appointment, error) {
	return s.store.GetAppointment(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context, f core.AppointmentFilter) ([]core.Appointment, error) {
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(f.DateFrom.Time) {
		return nil, core.Invalid("dateTo", "must not be before dateFrom")
	}
	return s.store.ListAppointments(ctx, f)
}

// publish never fails the request; the write is already committed.
func (s *AppointmentService) publish(ctx context.Context, eventType string, id int64) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping appointment event", "type", eventType)
		return
	}
	if err := s.publisher.PublishAppointmentEvent(ctx, eventType, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish appointment event",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldOperation, applog.OpPublish,
			applog.FieldEvent, eventType,
			applog.FieldAppointmentID, id,
			applog.FieldError, err)
	}
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
