package cron

import log "log/slog"

func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	log.Info("Cron Jobs starting...", "jobs", len(mgr.Entries()))
	mgr.Start()
	return nil
}
