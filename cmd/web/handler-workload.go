package main

import (
	"net/http"
	"time"

	"github.com/myrjola/trainload/internal/workload"
)

// workloadResponse is the wire form of a workload summary.
type workloadResponse struct {
	AcuteLoad         float64           `json:"acuteLoad"`
	ChronicLoad       float64           `json:"chronicLoad"`
	ACWR              *float64          `json:"acwr"`
	Status            workload.Status   `json:"status"`
	IsAcuteIncomplete bool              `json:"isAcuteIncomplete"`
	IsChronicUnstable bool              `json:"isChronicUnstable"`
	WeeklyLoads       []float64         `json:"weeklyLoads"`
	WeeklyLoadRanges  []weeklyLoadRange `json:"weeklyLoadRanges"`
}

type weeklyLoadRange struct {
	Load      float64 `json:"load"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}

// workloadGET computes the workload metrics over the whole session history.
func (app *application) workloadGET(w http.ResponseWriter, r *http.Request) {
	summary, err := app.sessionService.Workload(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	ranges := make([]weeklyLoadRange, len(summary.WeeklyLoadRanges))
	for i, lr := range summary.WeeklyLoadRanges {
		ranges[i] = weeklyLoadRange{
			Load:      lr.Load,
			StartDate: lr.Start.Format(time.RFC3339),
			EndDate:   lr.End.Format(time.RFC3339),
		}
	}

	app.writeJSON(w, r, http.StatusOK, workloadResponse{
		AcuteLoad:         summary.AcuteLoad,
		ChronicLoad:       summary.ChronicLoad,
		ACWR:              summary.ACWR,
		Status:            summary.Status,
		IsAcuteIncomplete: summary.Flags.AcuteIncomplete,
		IsChronicUnstable: summary.Flags.ChronicUnstable,
		WeeklyLoads:       summary.WeeklyLoads,
		WeeklyLoadRanges:  ranges,
	})
}
