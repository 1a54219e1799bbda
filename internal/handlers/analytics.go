package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fogleman/gg"

	"visionserver/internal/logger"
	"visionserver/internal/models"
	"visionserver/internal/repository"
)

var chartColors = map[models.AlertType]string{
	models.AlertCrowd:  "#1f77b4",
	models.AlertWeapon: "#d62728",
	models.AlertFight:  "#2ca02c",
}

// GetAnalyticsHandler serves aggregated alert statistics as JSON.
func GetAnalyticsHandler(repo repository.AlertRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := repo.CountByType()
		if err != nil {
			logger.Error("Failed to aggregate alerts: %v", err)
			http.Error(w, "Failed to aggregate alerts", http.StatusInternalServerError)
			return
		}
		daily, err := repo.DailyCounts()
		if err != nil {
			logger.Error("Failed to aggregate daily alerts: %v", err)
			http.Error(w, "Failed to aggregate alerts", http.StatusInternalServerError)
			return
		}
		if daily == nil {
			daily = []repository.DailyCount{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"type_counts": counts,
			"daily":       daily,
		})
	}
}

// GetAnalyticsPlotHandler renders the detection totals and the daily trend
// as a PNG chart for the analytics page.
func GetAnalyticsPlotHandler(repo repository.AlertRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := repo.CountByType()
		if err != nil {
			logger.Error("Failed to aggregate alerts: %v", err)
			http.Error(w, "Error generating plot", http.StatusInternalServerError)
			return
		}
		daily, err := repo.DailyCounts()
		if err != nil {
			logger.Error("Failed to aggregate daily alerts: %v", err)
			http.Error(w, "Error generating plot", http.StatusInternalServerError)
			return
		}

		png, err := renderAnalyticsChart(counts, daily)
		if err != nil {
			logger.Error("Failed to render analytics chart: %v", err)
			http.Error(w, "Error generating plot", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}

// chartMaxes returns the scaling maximum for each panel, never below 1.
// The panels scale independently: per-type totals accumulate over the full
// history and would otherwise flatten the daily trend bars.
func chartMaxes(counts repository.TypeCounts, daily []repository.DailyCount) (int, int) {
	typeMax, dailyMax := 1, 1
	for _, n := range counts {
		if n > typeMax {
			typeMax = n
		}
	}
	for _, d := range daily {
		if d.Count > dailyMax {
			dailyMax = d.Count
		}
	}
	return typeMax, dailyMax
}

// renderAnalyticsChart draws two panels on a dark background: per-type
// totals on the left, per-day trend bars on the right.
func renderAnalyticsChart(counts repository.TypeCounts, daily []repository.DailyCount) ([]byte, error) {
	const (
		width   = 900
		height  = 360
		margin  = 40.0
		panelW  = (width - 3*margin) / 2
		baseY   = height - 2*margin
		maxBarH = height - 4*margin
	)

	dc := gg.NewContext(width, height)
	dc.SetHexColor("#111111")
	dc.Clear()

	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored("Detection Types", margin+panelW/2, margin/2, 0.5, 0.5)
	dc.DrawStringAnchored("Detections Over Time", 2*margin+panelW+panelW/2, margin/2, 0.5, 0.5)

	types := []models.AlertType{models.AlertCrowd, models.AlertWeapon, models.AlertFight}
	typeMax, dailyMax := chartMaxes(counts, daily)

	// Left panel: one bar per alert type.
	barW := panelW / float64(len(types)) * 0.6
	for i, t := range types {
		x := margin + (float64(i)+0.2)*panelW/float64(len(types))
		h := float64(counts[t]) / float64(typeMax) * maxBarH
		dc.SetHexColor(chartColors[t])
		dc.DrawRectangle(x, baseY-h, barW, h)
		dc.Fill()
		dc.SetHexColor("#ffffff")
		dc.DrawStringAnchored(fmt.Sprintf("%s (%d)", t, counts[t]), x+barW/2, baseY+15, 0.5, 0.5)
	}

	// Right panel: grouped bars per day.
	byDate := map[string]map[models.AlertType]int{}
	var dates []string
	for _, dcnt := range daily {
		if _, ok := byDate[dcnt.Date]; !ok {
			byDate[dcnt.Date] = map[models.AlertType]int{}
			dates = append(dates, dcnt.Date)
		}
		byDate[dcnt.Date][dcnt.Type] = dcnt.Count
	}

	if len(dates) > 0 {
		groupW := panelW / float64(len(dates))
		subW := groupW / float64(len(types)+1)
		for gi, date := range dates {
			groupX := 2*margin + panelW + float64(gi)*groupW
			for ti, t := range types {
				h := float64(byDate[date][t]) / float64(dailyMax) * maxBarH
				dc.SetHexColor(chartColors[t])
				dc.DrawRectangle(groupX+float64(ti)*subW, baseY-h, subW*0.9, h)
				dc.Fill()
			}
			dc.SetHexColor("#ffffff")
			dc.DrawStringAnchored(date, groupX+groupW/2, baseY+15, 0.5, 0.5)
		}
	} else {
		dc.SetHexColor("#888888")
		dc.DrawStringAnchored("No detections yet", 2*margin+panelW+panelW/2, baseY-maxBarH/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
