package chrono

import (
	"bbm-backend/internal/telemetry"
	"fmt"

	"github.com/robfig/cron/v3"
)

// CronAPI runs callbacks on cron schedules.
type CronAPI interface {
	Cron(spec string, callback func()) error
	Stop()
}

// StandardCron runs schedules in WIB on robfig/cron.
type StandardCron struct {
	cron *cron.Cron
}

func NewStandardCron(tel telemetry.API) StandardCron {
	c := cron.New(
		cron.WithLogger(cronLogger{tel: telemetry.NewScopedAPI("cron", tel)}),
		cron.WithLocation(wib),
	)
	c.Start()
	return StandardCron{cron: c}
}

func (s StandardCron) Cron(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	return err
}

// Stop does not wait for running callbacks.
func (s StandardCron) Stop() {
	s.cron.Stop()
}

// cronLogger forwards robfig/cron's logr-style logs to telemetry.
type cronLogger struct {
	tel telemetry.API
}

func pairs(keysAndValues []any) []any {
	out := make([]any, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out = append(out, fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1]))
	}
	return out
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(msg, pairs(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken("job", append([]any{msg, err}, pairs(keysAndValues)...)...)
}
