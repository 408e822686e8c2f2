package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ExportService renders the statistics overview as CSV, XLSX or PDF
type ExportService struct {
	statisticsSvc *StatisticsService
}

func NewExportService(statisticsSvc *StatisticsService) *ExportService {
	return &ExportService{statisticsSvc: statisticsSvc}
}

// Report labels per entity. Status values overlap between entities
// ("completed", "cancelled") and the labels differ, so each entity
// carries its own map.
var (
	requestStatusLabels = map[string]string{
		models.LeaseRequestStatusPending:   "На рассмотрении",
		models.LeaseRequestStatusConfirmed: "Подтверждена",
		models.LeaseRequestStatusRejected:  "Отклонена",
		models.LeaseRequestStatusCancelled: "Отменена",
	}
	contractStatusLabels = map[string]string{
		models.ContractStatusDraft:      "Черновик",
		models.ContractStatusActive:     "Действует",
		models.ContractStatusCompleted:  "Завершён",
		models.ContractStatusTerminated: "Расторгнут",
	}
	paymentStatusLabels = map[string]string{
		models.PaymentStatusPending:   "Ожидает оплаты",
		models.PaymentStatusPaid:      "Оплачен",
		models.PaymentStatusOverdue:   "Просрочен",
		models.PaymentStatusCancelled: "Отменён",
	}
	maintenanceStatusLabels = map[string]string{
		models.MaintenanceStatusNew:        "Новая",
		models.MaintenanceStatusInProgress: "В работе",
		models.MaintenanceStatusCompleted:  "Выполнена",
		models.MaintenanceStatusCancelled:  "Отменена",
	}
)

func statusLabel(labels map[string]string, status string) string {
	if label, ok := labels[status]; ok {
		return label
	}
	return status
}

// translateCP1251 re-encodes UTF-8 text as Windows-1251, the code page
// the PDF fonts are declared with. Runes outside the code page degrade
// to '?'.
func translateCP1251(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if encoded, ok := charmap.Windows1251.EncodeRune(r); ok {
			b.WriteByte(encoded)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

func (s *ExportService) ExportCSV(ctx context.Context, overview *models.StatisticsOverview) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Отчёт по лизингу", overview.GeneratedAt.Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Сводка"})
	_ = writer.Write([]string{"Показатель", "Значение"})
	_ = writer.Write([]string{"Единиц техники", fmt.Sprintf("%d", overview.TotalEquipment)})
	_ = writer.Write([]string{"Активных компаний", fmt.Sprintf("%d", overview.ActiveCompanies)})
	_ = writer.Write([]string{"Действующих договоров", fmt.Sprintf("%d", overview.ActiveContracts)})
	_ = writer.Write([]string{"Сумма договоров", fmt.Sprintf("%.2f", overview.TotalContractValue)})
	_ = writer.Write([]string{"Оплачено", fmt.Sprintf("%.2f", overview.TotalPaid)})
	_ = writer.Write([]string{"Просрочено", fmt.Sprintf("%.2f", overview.TotalOverdue)})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Заявки по статусам"})
	for status, count := range overview.RequestsByStatus {
		_ = writer.Write([]string{statusLabel(requestStatusLabels, status), fmt.Sprintf("%d", count)})
	}
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Договоры по статусам"})
	for status, count := range overview.ContractsByStatus {
		_ = writer.Write([]string{statusLabel(contractStatusLabels, status), fmt.Sprintf("%d", count)})
	}

	writer.Flush()

	filename := fmt.Sprintf("leasing_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, overview *models.StatisticsOverview) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Сводка"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Отчёт по лизингу")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "B1", overview.GeneratedAt.Format("2006-01-02 15:04"))

	_ = f.SetCellValue(sheet, "A3", "Показатель")
	_ = f.SetCellValue(sheet, "B3", "Значение")
	_ = f.SetCellValue(sheet, "A4", "Единиц техники")
	_ = f.SetCellValue(sheet, "B4", overview.TotalEquipment)
	_ = f.SetCellValue(sheet, "A5", "Активных компаний")
	_ = f.SetCellValue(sheet, "B5", overview.ActiveCompanies)
	_ = f.SetCellValue(sheet, "A6", "Действующих договоров")
	_ = f.SetCellValue(sheet, "B6", overview.ActiveContracts)
	_ = f.SetCellValue(sheet, "A7", "Сумма договоров")
	_ = f.SetCellValue(sheet, "B7", overview.TotalContractValue)
	_ = f.SetCellValue(sheet, "A8", "Оплачено")
	_ = f.SetCellValue(sheet, "B8", overview.TotalPaid)
	_ = f.SetCellValue(sheet, "A9", "Просрочено")
	_ = f.SetCellValue(sheet, "B9", overview.TotalOverdue)

	row := 11
	row = writeStatusSection(f, sheet, row, "Заявки по статусам", overview.RequestsByStatus, requestStatusLabels)
	contractsRow := row
	row = writeStatusSection(f, sheet, row, "Договоры по статусам", overview.ContractsByStatus, contractStatusLabels)
	row = writeStatusSection(f, sheet, row, "Платежи по статусам", overview.PaymentsByStatus, paymentStatusLabels)
	_ = writeStatusSection(f, sheet, row, "Обслуживание по статусам", overview.MaintenanceByStatus, maintenanceStatusLabels)

	if n := len(overview.ContractsByStatus); n > 0 {
		_ = f.AddChart(sheet, "D3", &excelize.Chart{
			Type:  excelize.Pie,
			Title: []excelize.RichTextRun{{Text: "Договоры по статусам"}},
			Series: []excelize.ChartSeries{{
				Categories: fmt.Sprintf("'%s'!$A$%d:$A$%d", sheet, contractsRow+1, contractsRow+n),
				Values:     fmt.Sprintf("'%s'!$B$%d:$B$%d", sheet, contractsRow+1, contractsRow+n),
			}},
		})
	}

	_ = f.SetColWidth(sheet, "A", "A", 35)
	_ = f.SetColWidth(sheet, "B", "B", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("leasing_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func writeStatusSection(f *excelize.File, sheet string, row int, title string, counts map[string]int64, labels map[string]string) int {
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title)
	row++
	for status, count := range counts {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), statusLabel(labels, status))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), count)
		row++
	}
	return row + 1
}

func (s *ExportService) ExportPDF(ctx context.Context, overview *models.StatisticsOverview) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts have no Cyrillic glyphs; route all text through the
	// cp1251 translator
	tr := translateCP1251
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr("Отчёт по лизингу"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, tr("Сводка"))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	line := func(label string, value string) {
		pdf.Cell(70, 8, tr(label))
		pdf.Cell(40, 8, tr(value))
		pdf.Ln(6)
	}
	line("Единиц техники:", fmt.Sprintf("%d", overview.TotalEquipment))
	line("Активных компаний:", fmt.Sprintf("%d", overview.ActiveCompanies))
	line("Действующих договоров:", fmt.Sprintf("%d", overview.ActiveContracts))
	line("Сумма договоров:", fmt.Sprintf("%.2f", overview.TotalContractValue))
	line("Оплачено:", fmt.Sprintf("%.2f", overview.TotalPaid))
	line("Просрочено:", fmt.Sprintf("%.2f", overview.TotalOverdue))
	pdf.Ln(6)

	sections := []struct {
		title  string
		counts map[string]int64
		labels map[string]string
	}{
		{"Заявки по статусам", overview.RequestsByStatus, requestStatusLabels},
		{"Договоры по статусам", overview.ContractsByStatus, contractStatusLabels},
		{"Платежи по статусам", overview.PaymentsByStatus, paymentStatusLabels},
		{"Обслуживание по статусам", overview.MaintenanceByStatus, maintenanceStatusLabels},
	}
	for _, section := range sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, tr(section.title))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for status, count := range section.counts {
			line(statusLabel(section.labels, status)+":", fmt.Sprintf("%d", count))
		}
		pdf.Ln(4)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("leasing_report_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
