package main

import (
	"fmt"
	"io"
	"time"

	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04"

func renderBoard(w io.Writer, board queries.ListDepartmentsQueryResponse) error {
	current := "-"
	if d, ok := board.CurrentDepartment.Get(); ok {
		current = d.String()
	}
	if _, err := fmt.Fprintf(w, "%s  %s  current: %s  %d%% complete\n",
		board.OrderNumber, board.OrderStatus, current, board.CompletionPercentage); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Department", "Status", "Worker", "Gold in", "Gold out", "Loss", "Started", "Completed", "Form")

	var totalLoss decimal.Decimal
	for _, row := range board.Departments {
		loss := weightCell(row.GoldLoss)
		if l, ok := row.GoldLoss.Get(); ok {
			totalLoss = totalLoss.Add(l)
			if row.GoldGain {
				loss += " gain"
			}
		}
		worker := row.AssignedToName
		if worker == "" {
			worker = "-"
		}
		status := row.Status.String()
		if row.HoldReason != "" {
			status += ": " + row.HoldReason
		}

		if err := table.Append([]string{
			fmt.Sprint(row.SequenceIndex + 1),
			row.Department.String(),
			status,
			worker,
			weightCell(row.GoldWeightIn),
			weightCell(row.GoldWeightOut),
			loss,
			timeCell(row.StartedAt),
			timeCell(row.CompletedAt),
			fmt.Sprintf("%d%%", row.Progress),
		}); err != nil {
			return err
		}
	}
	table.Footer("", "", "", "", "", "Total loss", totalLoss.StringFixed(3), "", "", "")

	return table.Render()
}

func weightCell(v kernel.Option[decimal.Decimal]) string {
	if d, ok := v.Get(); ok {
		return d.StringFixed(3)
	}
	return "-"
}

func timeCell(v kernel.Option[time.Time]) string {
	if t, ok := v.Get(); ok {
		return t.UTC().Format(timeLayout)
	}
	return "-"
}
