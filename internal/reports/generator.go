package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/slimreset/slimcoach/internal/storage"
	"github.com/slimreset/slimcoach/internal/weights"
)

// Generator generates PDF/CSV progress reports
type Generator struct {
	weightsStorage  storage.WeightsStorage
	mealsStorage    storage.MealsStorage
	caloriesStorage storage.CaloriesStorage
	moodsStorage    storage.MoodsStorage
}

// NewGenerator creates a new report generator
func NewGenerator(weightsStorage storage.WeightsStorage, mealsStorage storage.MealsStorage, caloriesStorage storage.CaloriesStorage, moodsStorage storage.MoodsStorage) *Generator {
	return &Generator{
		weightsStorage:  weightsStorage,
		mealsStorage:    mealsStorage,
		caloriesStorage: caloriesStorage,
		moodsStorage:    moodsStorage,
	}
}

// dayRow is one aggregated day in the report range
type dayRow struct {
	Date             string
	WeightKg         *float64
	CaloriesConsumed *float64
	CaloriesBurned   *float64
	MealCount        int
	MoodNote         string
}

// GenerateReport generates a report and returns the data
func (g *Generator) GenerateReport(ctx context.Context, userID string, req CreateReportRequest) ([]byte, error) {
	rows, err := g.collectRows(ctx, userID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	switch req.Format {
	case FormatPDF:
		return g.generatePDF(req, rows)
	case FormatCSV:
		return g.generateCSV(rows)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

// collectRows builds one row per day in [from, to] from the health stores
func (g *Generator) collectRows(ctx context.Context, userID, from, to string) ([]dayRow, error) {
	weightRows, err := g.weightsStorage.ListWeights(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weights: %w", err)
	}
	calorieRows, err := g.caloriesStorage.ListCalories(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calories: %w", err)
	}
	mealRows, err := g.mealsStorage.ListMeals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meals: %w", err)
	}
	moodRows, err := g.moodsStorage.ListMoods(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch moods: %w", err)
	}

	weightByDate := make(map[string]float64)
	for _, e := range weightRows {
		weightByDate[e.Date] = e.Kg
	}
	consumedByDate := make(map[string]float64)
	burnedByDate := make(map[string]float64)
	for _, e := range calorieRows {
		switch e.Kind {
		case storage.CalorieConsumed:
			consumedByDate[e.Date] = e.Kcal
		case storage.CalorieBurned:
			burnedByDate[e.Date] = e.Kcal
		}
	}
	mealCountByDate := make(map[string]int)
	for _, e := range mealRows {
		mealCountByDate[e.Date]++
	}
	moodByDate := make(map[string]string) // last note wins, rows are creation-ordered
	for _, e := range moodRows {
		moodByDate[e.Date] = e.Note
	}

	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var rows []dayRow
	for d := fromDate; !d.After(toDate); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		row := dayRow{
			Date:      date,
			MealCount: mealCountByDate[date],
			MoodNote:  moodByDate[date],
		}
		if kg, ok := weightByDate[date]; ok {
			row.WeightKg = &kg
		}
		if kcal, ok := consumedByDate[date]; ok {
			row.CaloriesConsumed = &kcal
		}
		if kcal, ok := burnedByDate[date]; ok {
			row.CaloriesBurned = &kcal
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// generateCSV generates a CSV report
func (g *Generator) generateCSV(rows []dayRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "weight_kg", "weight_lbs", "calories_consumed", "calories_burned", "meal_count", "mood"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{row.Date}

		if row.WeightKg != nil {
			record = append(record, fmt.Sprintf("%.1f", *row.WeightKg), strconv.Itoa(weights.DisplayLbs(*row.WeightKg)))
		} else {
			record = append(record, "", "")
		}
		if row.CaloriesConsumed != nil {
			record = append(record, strconv.Itoa(int(*row.CaloriesConsumed)))
		} else {
			record = append(record, "")
		}
		if row.CaloriesBurned != nil {
			record = append(record, strconv.Itoa(int(*row.CaloriesBurned)))
		} else {
			record = append(record, "")
		}
		record = append(record, strconv.Itoa(row.MealCount), row.MoodNote)

		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// generatePDF generates a PDF progress report
func (g *Generator) generatePDF(req CreateReportRequest, rows []dayRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "SlimReset Progress Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", req.From, req.To))
	pdf.Ln(12)

	summary := calculateSummary(rows)

	pdf.SetFont("Helvetica", "", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Weight change: %s", summary.WeightDelta))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average calories consumed: %s", formatInt(summary.AvgConsumed)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average calories burned: %s", formatInt(summary.AvgBurned)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Days with meals logged: %d of %d", summary.DaysWithMeals, len(rows)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 14)
	pdf.Cell(0, 8, "Recent days")
	pdf.Ln(8)

	drawRecentDaysTable(pdf, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// Summary holds calculated summary statistics
type Summary struct {
	WeightDelta   string
	AvgConsumed   *int
	AvgBurned     *int
	DaysWithMeals int
}

func calculateSummary(rows []dayRow) Summary {
	var firstWeight, lastWeight *float64
	var totalConsumed, countConsumed int
	var totalBurned, countBurned int
	daysWithMeals := 0

	for i := range rows {
		if rows[i].WeightKg != nil {
			if firstWeight == nil {
				firstWeight = rows[i].WeightKg
			}
			lastWeight = rows[i].WeightKg
		}
		if rows[i].CaloriesConsumed != nil {
			totalConsumed += int(*rows[i].CaloriesConsumed)
			countConsumed++
		}
		if rows[i].CaloriesBurned != nil {
			totalBurned += int(*rows[i].CaloriesBurned)
			countBurned++
		}
		if rows[i].MealCount > 0 {
			daysWithMeals++
		}
	}

	summary := Summary{DaysWithMeals: daysWithMeals}

	if firstWeight != nil && lastWeight != nil {
		deltaLbs := weights.DisplayLbs(*lastWeight) - weights.DisplayLbs(*firstWeight)
		summary.WeightDelta = fmt.Sprintf("%+d lbs", deltaLbs)
	} else {
		summary.WeightDelta = "No data"
	}

	if countConsumed > 0 {
		avg := totalConsumed / countConsumed
		summary.AvgConsumed = &avg
	}
	if countBurned > 0 {
		avg := totalBurned / countBurned
		summary.AvgBurned = &avg
	}

	return summary
}

// drawRecentDaysTable draws a table of the last 14 days in the range
func drawRecentDaysTable(pdf *gofpdf.Fpdf, rows []dayRow) {
	recent := rows
	if len(recent) > 14 {
		recent = recent[len(recent)-14:]
	}

	pdf.SetFont("Helvetica", "", 8)

	pdf.CellFormat(25, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Weight (lbs)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Consumed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Burned", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Meals", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Mood", "1", 1, "C", false, 0, "")

	for _, row := range recent {
		pdf.CellFormat(25, 6, row.Date, "1", 0, "C", false, 0, "")

		weight := ""
		if row.WeightKg != nil {
			weight = strconv.Itoa(weights.DisplayLbs(*row.WeightKg))
		}
		pdf.CellFormat(25, 6, weight, "1", 0, "C", false, 0, "")

		consumed := ""
		if row.CaloriesConsumed != nil {
			consumed = strconv.Itoa(int(*row.CaloriesConsumed))
		}
		pdf.CellFormat(25, 6, consumed, "1", 0, "C", false, 0, "")

		burned := ""
		if row.CaloriesBurned != nil {
			burned = strconv.Itoa(int(*row.CaloriesBurned))
		}
		pdf.CellFormat(25, 6, burned, "1", 0, "C", false, 0, "")

		pdf.CellFormat(20, 6, strconv.Itoa(row.MealCount), "1", 0, "C", false, 0, "")

		mood := row.MoodNote
		if len(mood) > 40 {
			mood = strings.TrimSpace(mood[:40]) + "..."
		}
		pdf.CellFormat(50, 6, mood, "1", 1, "C", false, 0, "")
	}
}

func formatInt(val *int) string {
	if val == nil {
		return "No data"
	}
	return strconv.Itoa(*val)
}
