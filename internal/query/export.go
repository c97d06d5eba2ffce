package query

import (
	"encoding/csv"
	"fmt"
	"io"

	"BioDash/internal/model"
)

// exportHeader matches the download column order of the dashboard.
var exportHeader = []string{"data", "estado", "cidade", "agente_biologico", "faixa_preco", "preco"}

// WriteCSV writes the rows as the downloadable filtered table: dates as
// dd/mm/yyyy, prices with two decimals.
func WriteCSV(w io.Writer, rows []model.PurchaseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Date.Format("02/01/2006"),
			r.State,
			r.City,
			r.Agent,
			r.BandLabel,
			fmt.Sprintf("%.2f", r.Price),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
