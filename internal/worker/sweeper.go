package worker

import (
	"time"

	"billettigue/internal/services"
	"billettigue/internal/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Sweeper periodically marks past-departure trajets as expired.
type Sweeper struct {
	cron *cron.Cron
	spec string
}

func NewSweeper(spec string) *Sweeper {
	return &Sweeper{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		spec: spec,
	}
}

func (w *Sweeper) Start() error {
	if _, err := w.cron.AddFunc(w.spec, w.run); err != nil {
		return err
	}
	w.cron.Start()
	utils.LogEvent("", "worker", "sweeper_start", "spec="+w.spec)
	return nil
}

// Stop waits for a running sweep to finish.
func (w *Sweeper) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	utils.LogEvent("", "worker", "sweeper_stop", "done")
}

func (w *Sweeper) run() {
	requestID := uuid.NewString()
	svc := services.SweepService{RequestID: requestID}
	res, err := svc.SweepExpiredTrajets(time.Now())
	if err != nil {
		utils.LogError(requestID, "worker", "sweep_failed", err)
		return
	}
	if res.Count > 0 {
		utils.Logger().WithField("request_id", requestID).
			WithField("expired", res.Count).
			Info("sweep: trajets expirés")
	}
}
