package fanout

import (
	"Ripple/internal/model"
	"Ripple/internal/trigger"
	"context"
)

func (h *Handlers) OnReportFiled(ctx context.Context, evt *trigger.Event) error {
	var report model.Report
	if err := evt.DataTo(&report); err != nil {
		return err
	}
	_, err := h.moderator.Review(ctx, report.ReportType, report.ReportedID)
	return skipMissing(err)
}
