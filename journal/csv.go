package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/papertrade/broker"
)

var csvHeader = []string{"id", "account_id", "symbol", "shares", "price", "amount", "time"}

// WriteCSV writes the records to w, one row per transaction, with a header.
func WriteCSV(w io.Writer, txs []broker.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range txs {
		err := cw.Write([]string{
			t.ID,
			strconv.FormatInt(t.AccountID, 10),
			t.Symbol,
			strconv.FormatInt(t.Shares, 10),
			t.Price.String(),
			t.Amount().StringFixed(2),
			t.Time.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
