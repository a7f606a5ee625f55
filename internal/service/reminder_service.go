package service

import (
	"context"
	"fmt"
	"time"

	"go-clinic-scheduling/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefixes for the reminder queue
	RedisReminderKeyPrefix = "reminder:due:"

	// Timeout for individual Redis operations
	reminderOpTimeout = 5 * time.Second
)

// ReminderService schedules timed reminder jobs for appointments in a Redis
// sorted set scored by due time. A worker outside this core drains the set.
//
// Every method is fire-and-continue: a Redis failure is logged and swallowed
// so it can never fail or roll back the appointment write that triggered it.
type ReminderService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	leadTime    time.Duration
}

func NewReminderService(redisClient *redis.Client, log *logrus.Logger, leadTime time.Duration) *ReminderService {
	return &ReminderService{
		redisClient: redisClient,
		log:         log,
		leadTime:    leadTime,
	}
}

// ScheduleReminder enqueues a reminder due leadTime before the appointment
// starts. Past-due reminders are skipped.
func (s *ReminderService) ScheduleReminder(appointment *entity.Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), reminderOpTimeout)
	defer cancel()

	startMinute, err := time.Parse("15:04", appointment.StartTime)
	if err != nil {
		s.log.Warnf("Skipping reminder for appointment %s: bad start time %q", appointment.ID, appointment.StartTime)
		return
	}

	startsAt := time.Date(
		appointment.Date.Year(), appointment.Date.Month(), appointment.Date.Day(),
		startMinute.Hour(), startMinute.Minute(), 0, 0, time.UTC,
	)
	dueAt := startsAt.Add(-s.leadTime)
	if dueAt.Before(time.Now().UTC()) {
		s.log.Debugf("Reminder for appointment %s already past due, skipping", appointment.ID)
		return
	}

	key := fmt.Sprintf("%s%s", RedisReminderKeyPrefix, appointment.ClinicID)
	err = s.redisClient.ZAdd(ctx, key, redis.Z{
		Score:  float64(dueAt.Unix()),
		Member: appointment.ID.String(),
	}).Err()
	if err != nil {
		// Non-fatal: the appointment is already committed
		s.log.Warnf("Failed to schedule reminder for appointment %s (non-fatal): %+v", appointment.ID, err)
		return
	}

	s.log.Debugf("Scheduled reminder for appointment %s at %s", appointment.ID, dueAt.Format(time.RFC3339))
}

// CancelReminder drops a pending reminder after a cancellation.
func (s *ReminderService) CancelReminder(appointment *entity.Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), reminderOpTimeout)
	defer cancel()

	key := fmt.Sprintf("%s%s", RedisReminderKeyPrefix, appointment.ClinicID)
	if err := s.redisClient.ZRem(ctx, key, appointment.ID.String()).Err(); err != nil {
		s.log.Warnf("Failed to cancel reminder for appointment %s (non-fatal): %+v", appointment.ID, err)
	}
}
