// Package settlement defines the outbound payment capability consumed by the
// trading engines. The core treats settlement as a fallible synchronous call:
// implementations must be bounded (no indefinite blocking) and are invoked
// only after all ledger state mutation has completed.
package settlement

import "log/slog"

// Channel is the abstract payment/settlement capability. Transfer routes
// sale proceeds to a counterparty; Refund returns overpayment to a buyer.
type Channel interface {
	Transfer(to string, amountCents int64) error
	Refund(to string, amountCents int64) error
}

// LogChannel is a Channel that records transfers via slog and always
// succeeds. It stands in for a real settlement integration in development
// and tests.
type LogChannel struct {
	logger *slog.Logger
}

// NewLogChannel creates a LogChannel writing to the given logger.
func NewLogChannel(logger *slog.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

// Transfer logs the outbound transfer and succeeds.
func (c *LogChannel) Transfer(to string, amountCents int64) error {
	c.logger.Info("settlement transfer",
		slog.String("to", to),
		slog.Int64("amount_cents", amountCents),
	)
	return nil
}

// Refund logs the refund and succeeds.
func (c *LogChannel) Refund(to string, amountCents int64) error {
	c.logger.Info("settlement refund",
		slog.String("to", to),
		slog.Int64("amount_cents", amountCents),
	)
	return nil
}
