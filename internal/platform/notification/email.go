// Package notification announces stored close snapshots over email and Kafka.
// Every notifier is best-effort: the closer logs its errors and moves on.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/realestate-cashflow/internal/config"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/reporting"
	"github.com/shopspring/decimal"
)

const sendTimeout = 20 * time.Second

// mailSender is the part of the mailgun client used here
type mailSender interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// NewEmailNotifier picks the email channel from cfg.Provider.
// Anything but a complete mailgun setup falls back to logging the summary.
func NewEmailNotifier(logger *slog.Logger, cfg *config.EmailConfig) reporting.Notifier {
	logger = logger.With("component", "email_notifier")

	if strings.ToLower(cfg.Provider) != "mailgun" {
		logger.Info("Email provider disabled, close summaries will only be logged", "provider", cfg.Provider)
		return &LogNotifier{logger: logger}
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.Sender == "" || len(cfg.Recipients) == 0 {
		logger.Warn("Mailgun configuration incomplete, falling back to logging close summaries")
		return &LogNotifier{logger: logger}
	}

	logger.Info("Mailgun client initialized", "domain", cfg.MailgunDomain, "recipients", len(cfg.Recipients))
	return &MailgunNotifier{
		mg:         mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey),
		sender:     cfg.Sender,
		senderName: cfg.SenderName,
		recipients: cfg.Recipients,
		logger:     logger,
	}
}

// MailgunNotifier emails the close summary to the configured recipients
type MailgunNotifier struct {
	mg         mailSender
	sender     string
	senderName string
	recipients []string
	logger     *slog.Logger
}

func (n *MailgunNotifier) NotifyClose(ctx context.Context, notice reporting.CloseNotice) error {
	from := n.sender
	if n.senderName != "" {
		from = fmt.Sprintf("%s <%s>", n.senderName, n.sender)
	}

	message := n.mg.NewMessage(from, closeSubject(notice), closeBody(notice), n.recipients...)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, id, err := n.mg.Send(ctx, message)
	if err != nil {
		n.logger.Error("Failed to send close summary via Mailgun",
			"snapshot_id", notice.Snapshot.ID.String(),
			"error", err,
			"mailgun_resp", resp)
		return fmt.Errorf("mailgun send failed: %w", err)
	}

	n.logger.Info("Close summary sent via Mailgun",
		"snapshot_id", notice.Snapshot.ID.String(),
		"mailgun_id", id,
		"recipients", len(n.recipients))
	return nil
}

// LogNotifier records the summary in the log when email is disabled
type LogNotifier struct {
	logger *slog.Logger
}

func (n *LogNotifier) NotifyClose(_ context.Context, notice reporting.CloseNotice) error {
	n.logger.Info("Close summary (email disabled)",
		"snapshot_id", notice.Snapshot.ID.String(),
		"subject", closeSubject(notice))
	return nil
}

func closeSubject(notice reporting.CloseNotice) string {
	s := notice.Snapshot
	return fmt.Sprintf("Cierre de flujo de caja %s (%s)", s.Date.Format(cashflow.DateLayout), s.Kind)
}

func closeBody(notice reporting.CloseNotice) string {
	s := notice.Snapshot

	var b strings.Builder
	fmt.Fprintf(&b, "Cierre %s generado el %s.\n", s.ID, s.GeneratedAt.UTC().Format(time.RFC3339))
	if s.DateFrom != nil && s.DateTo != nil {
		fmt.Fprintf(&b, "Periodo: %s a %s\n", s.DateFrom.Format(cashflow.DateLayout), s.DateTo.Format(cashflow.DateLayout))
	} else {
		b.WriteString("Periodo: histórico completo\n")
	}
	if s.RequestedBy != "" {
		fmt.Fprintf(&b, "Solicitado por: %s\n", s.RequestedBy)
	}

	if notice.Summary == nil {
		b.WriteString("\nConsulte el cierre completo en el sistema.\n")
		return b.String()
	}

	b.WriteString("\nResumen:\n")
	writeTotalsLine(&b, "Ingreso total", notice.Summary.TotalIncome)
	writeTotalsLine(&b, "Egreso total", notice.Summary.TotalExpense)
	writeTotalsLine(&b, "Utilidad neta", notice.Summary.NetProfit)
	writeTotalsLine(&b, "Disponibilidad total", notice.Summary.TotalAvailable)
	return b.String()
}

func writeTotalsLine(b *strings.Builder, label string, t cashflow.Totals) {
	fmt.Fprintf(b, "  %-21s Bs %s | USD %s | EUR %s\n", label+":",
		decimal.NewFromFloat(t.BS).StringFixed(2),
		decimal.NewFromFloat(t.USD).StringFixed(2),
		decimal.NewFromFloat(t.EUR).StringFixed(2))
}
