package signals

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"signalhook/src/model"
	"signalhook/src/repository"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

type Lister struct {
	Log  *logger.Entry
	Repo *repository.WebhookSignalRepository
	Out  io.Writer
}

// Row is the typed view of a stored signal used for display.
type Row struct {
	ID         uint
	ConfigID   string
	ReceivedAt time.Time
	Ticker     string
	Action     string
	Quantity   *decimal.Decimal
	Price      *decimal.Decimal
}

func toRow(s model.WebhookSignal) Row {
	row := Row{ID: s.ID, ConfigID: s.ConfigID, ReceivedAt: s.ReceivedAt}

	payload, err := model.DecodeInboundSignal(bytes.NewReader(s.Payload))
	if err != nil {
		return row
	}
	row.Ticker = payload.Ticker()
	row.Action = payload.Action()
	if q, ok := payload.Quantity(); ok {
		row.Quantity = &q
	}
	if p, ok := payload.Price(); ok {
		row.Price = &p
	}
	return row
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

// Rows returns the newest signals, optionally for one configuration.
func (l *Lister) Rows(ctx context.Context, configID string, limit int) ([]Row, error) {
	stored, err := l.Repo.FindLatest(ctx, configID, limit)
	if err != nil {
		return nil, fmt.Errorf("list webhook signals: %w", err)
	}

	rows := make([]Row, 0, len(stored))
	for _, s := range stored {
		rows = append(rows, toRow(s))
	}
	return rows, nil
}

func (l *Lister) Print(ctx context.Context, configID string, limit int) error {
	rows, err := l.Rows(ctx, configID, limit)
	if err != nil {
		return err
	}
	l.Log.WithField("rows", len(rows)).Debug("signals fetched")

	tw := tabwriter.NewWriter(l.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tRECEIVED\tCONFIG\tTICKER\tACTION\tQUANTITY\tPRICE")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.ReceivedAt.UTC().Format(time.RFC3339), r.ConfigID, r.Ticker, r.Action,
			formatDecimal(r.Quantity), formatDecimal(r.Price))
	}
	return tw.Flush()
}
