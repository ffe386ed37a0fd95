package reminder

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
	"github.com/oshokin/medication-alarm/internal/logger"
	rpcv1 "github.com/oshokin/medication-alarm/internal/rpc/v1"
	"github.com/oshokin/medication-alarm/internal/service/reminder"
)

// Service abstracts the engine operations the transport layer depends on.
type Service interface {
	CreateAlarm(ctx context.Context, req reminder.CreateRequest) (*domain.Alarm, error)
	GetPersonalAlarms(ctx context.Context, patientID int64) ([]*domain.Alarm, error)
	GetAlarmByID(ctx context.Context, alarmID, patientID int64) (*domain.Alarm, error)
	UpdateAlarm(ctx context.Context, alarmID, patientID int64, patch domain.Patch) (*domain.Alarm, error)
	DeleteAlarm(ctx context.Context, alarmID, patientID int64) (bool, error)
	ToggleAlarmStatus(ctx context.Context, alarmID int64, isActive bool, patientID int64) (bool, error)
	ProcessDueAlarms(ctx context.Context) reminder.SweepReport
}

// Server implements the MedicationAlarmService gRPC API.
type Server struct {
	rpcv1.UnimplementedAlarmServiceServer

	// service provides the engine operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// CreateAlarm creates an alarm for one of the patient's medications.
func (s *Server) CreateAlarm(ctx context.Context, req *rpcv1.CreateAlarmRequest) (*rpcv1.CreateAlarmResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	alarmTime, err := domain.ParseTimeOfDay(req.AlarmTime)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	created, err := s.service.CreateAlarm(ctx, reminder.CreateRequest{
		PatientID:             req.PatientID,
		MedicationReferenceID: req.MedicationReferenceID,
		AlarmTime:             alarmTime,
		IsActive:              req.IsActive,
		Notes:                 req.Notes,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &rpcv1.CreateAlarmResponse{Alarm: rpcv1.FromDomain(created)}, nil
}

// ListAlarms returns the patient's alarms ordered by time of day.
func (s *Server) ListAlarms(ctx context.Context, req *rpcv1.ListAlarmsRequest) (*rpcv1.ListAlarmsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	alarms, err := s.service.GetPersonalAlarms(ctx, req.PatientID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	response := &rpcv1.ListAlarmsResponse{Alarms: make([]*rpcv1.Alarm, 0, len(alarms))}
	for _, a := range alarms {
		response.Alarms = append(response.Alarms, rpcv1.FromDomain(a))
	}

	return response, nil
}

// GetAlarm returns one alarm; absent and foreign alarms are reported as not found.
func (s *Server) GetAlarm(ctx context.Context, req *rpcv1.GetAlarmRequest) (*rpcv1.GetAlarmResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := s.service.GetAlarmByID(ctx, req.AlarmID, req.PatientID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	if found == nil {
		return &rpcv1.GetAlarmResponse{Found: false}, nil
	}

	return &rpcv1.GetAlarmResponse{Found: true, Alarm: rpcv1.FromDomain(found)}, nil
}

// UpdateAlarm applies a partial update.
func (s *Server) UpdateAlarm(ctx context.Context, req *rpcv1.UpdateAlarmRequest) (*rpcv1.UpdateAlarmResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	patch := domain.Patch{
		IsActive: req.IsActive,
		Notes:    req.Notes,
	}

	if req.AlarmTime != nil {
		alarmTime, err := domain.ParseTimeOfDay(*req.AlarmTime)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		patch.AlarmTime = &alarmTime
	}

	updated, err := s.service.UpdateAlarm(ctx, req.AlarmID, req.PatientID, patch)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &rpcv1.UpdateAlarmResponse{Alarm: rpcv1.FromDomain(updated)}, nil
}

// DeleteAlarm removes an alarm.
func (s *Server) DeleteAlarm(ctx context.Context, req *rpcv1.DeleteAlarmRequest) (*rpcv1.DeleteAlarmResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	deleted, err := s.service.DeleteAlarm(ctx, req.AlarmID, req.PatientID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &rpcv1.DeleteAlarmResponse{Deleted: deleted}, nil
}

// ToggleAlarm activates or deactivates an alarm.
func (s *Server) ToggleAlarm(ctx context.Context, req *rpcv1.ToggleAlarmRequest) (*rpcv1.ToggleAlarmResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	updated, err := s.service.ToggleAlarmStatus(ctx, req.AlarmID, req.IsActive, req.PatientID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &rpcv1.ToggleAlarmResponse{Updated: updated}, nil
}

// ProcessDueAlarms runs one sweep on demand. The sweep outlives the caller's
// deadline so a hung up client does not fail the dispatches in flight.
func (s *Server) ProcessDueAlarms(
	ctx context.Context,
	_ *rpcv1.ProcessDueAlarmsRequest,
) (*rpcv1.ProcessDueAlarmsResponse, error) {
	report := s.service.ProcessDueAlarms(context.WithoutCancel(ctx))

	return &rpcv1.ProcessDueAlarmsResponse{
		StartedAt:  report.StartedAt,
		Candidates: report.Candidates,
		Due:        report.Due,
		Sent:       report.Sent,
		Failed:     report.Failed,
	}, nil
}

// toStatus maps engine errors onto gRPC status codes.
// Unexpected errors are logged and hidden behind codes.Internal.
func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		logger.ErrorKV(ctx, "Request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
