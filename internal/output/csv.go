package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter writes one row per placed bill.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"PayDate", "Source", "PaycheckAmount", "UsedFunds", "Bill", "InstanceID", "DueDate", "Amount", "DaysLate", "Late", "CriticallyLate", "Underfunded", "Paid", "Tier"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range r.Paychecks {
		for _, b := range p.Lines {
			row := []string{
				p.PayDate.String(),
				p.SourceName,
				p.PaycheckAmount.StringFixed(2),
				p.UsedFunds.StringFixed(2),
				b.Bill.Name,
				b.InstanceID,
				b.DueDate.String(),
				b.Amount.StringFixed(2),
				strconv.Itoa(b.DaysLate),
				strconv.FormatBool(b.IsLate),
				strconv.FormatBool(b.IsCriticallyLate),
				strconv.FormatBool(b.IsUnderfunded),
				strconv.FormatBool(b.IsPaid),
				string(b.Tier),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
