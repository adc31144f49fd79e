package runner

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"signal_bot/internal/models"
)

var exportHeader = []string{
	"ts_iso", "mode", "target", "status", "phase", "gale", "max_gales",
	"strategy", "confluence", "came", "came_color", "trade_started_ts",
}

// ExportCSV пишет журнал сигналов в хронологическом порядке.
func (b *Bot) ExportCSV(w io.Writer) error {
	b.mu.Lock()
	rows := append([]models.SignalEntry(nil), b.signals...)
	b.mu.Unlock()
	return WriteSignalsCSV(w, rows)
}

// WriteSignalsCSV: rows в хронологическом порядке.
func WriteSignalsCSV(w io.Writer, rows []models.SignalEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, s := range rows {
		came := ""
		if s.Came != nil {
			came = strconv.Itoa(int(*s.Came))
		}
		rec := []string{
			s.TSISO.Format(time.RFC3339Nano),
			string(s.Mode),
			string(s.Target),
			string(s.Status),
			string(s.Phase),
			strconv.Itoa(s.Step),
			strconv.Itoa(s.MaxSteps),
			s.Strategy,
			strconv.Itoa(s.Confluence),
			came,
			string(s.CameColor),
			s.TradeStartedAt.Format(time.RFC3339Nano),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
