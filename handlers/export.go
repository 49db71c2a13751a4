package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/edsa-freetown/gridwatch/models"
)

// ExportHandler produces downloadable spreadsheets of the payment and report
// tables.
type ExportHandler struct {
	db *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

// PaymentsExcel exports all payments as an xlsx download.
// GET /api/v1/payments/export
func (h *ExportHandler) PaymentsExcel(w http.ResponseWriter, r *http.Request) {
	var payments []models.Payment
	if err := h.db.Preload("Resident").Preload("Community").
		Order("created_at DESC").Find(&payments).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch payments")
		return
	}

	headers := []string{"Resident", "Community", "Amount", "Units Purchased", "Meter Number", "Date"}
	rows := make([][]interface{}, len(payments))
	for i := range payments {
		dto := payments[i].ToDTO()
		rows[i] = []interface{}{
			dto.ResidentName, dto.CommunityName, dto.Amount,
			dto.UnitsPurchased, dto.MeterNumber,
			dto.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	serveExcel(w, "Payments", headers, rows)
}

// ReportsExcel exports all reports as an xlsx download.
// GET /api/v1/reports/export
func (h *ExportHandler) ReportsExcel(w http.ResponseWriter, r *http.Request) {
	var reports []models.Report
	if err := h.db.Preload("Resident").Preload("Community").
		Order("created_at DESC").Find(&reports).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch reports")
		return
	}

	headers := []string{"Resident", "Community", "Meter Number", "Issue Type", "Status", "Notes", "Submitted"}
	rows := make([][]interface{}, len(reports))
	for i := range reports {
		dto := reports[i].ToDTO()
		rows[i] = []interface{}{
			dto.ResidentName, dto.CommunityName, dto.MeterNumber,
			dto.IssueType, string(dto.Status), dto.Notes,
			dto.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	serveExcel(w, "Reports", headers, rows)
}

func serveExcel(w http.ResponseWriter, name string, headers []string, rows [][]interface{}) {
	f, err := createExcelFile(name, headers, rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate Excel file")
		return
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write Excel file")
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func createExcelFile(name string, headers []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	f.SetCellValue(sheet, "A1", name)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetRowHeight(sheet, 1, 30)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 4)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheet, colName, colName, 20)
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+5)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, value)
		}
	}
	return f, nil
}
