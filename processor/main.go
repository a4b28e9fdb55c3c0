package main

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"trf-app/config"
	"trf-app/database"
	"trf-app/models"

	"github.com/xuri/excelize/v2"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Expiry report processor. Run it from cron: it collects every TRF and
// assigned barcode expiring inside the report window, writes an Excel
// workbook and mails it to the lab coordinators.

type expiringRow struct {
	Kind       string
	Number     string
	TrfNumber  string
	ExpiryDate time.Time
}

func collectExpiring(db *gorm.DB, until time.Time) ([]expiringRow, error) {
	var rows []expiringRow

	var trfs []models.TRF
	if err := db.Where("expiry_date <= ?", until).Order("expiry_date ASC").Find(&trfs).Error; err != nil {
		return nil, err
	}
	trfNumbers := make(map[int64]string, len(trfs))
	for _, trf := range trfs {
		trfNumbers[trf.ID] = trf.TrfNumber
		rows = append(rows, expiringRow{
			Kind:       "TRF",
			Number:     trf.TrfNumber,
			ExpiryDate: trf.ExpiryDate,
		})
	}

	var barcodes []models.Barcode
	if err := db.Where("trf_id IS NOT NULL AND expiry_date IS NOT NULL AND expiry_date <= ?", until).
		Order("expiry_date ASC").Find(&barcodes).Error; err != nil {
		return nil, err
	}
	for _, barcode := range barcodes {
		row := expiringRow{
			Kind:       "Barcode",
			Number:     barcode.BarcodeNumber,
			ExpiryDate: *barcode.ExpiryDate,
		}
		if barcode.TrfId != nil {
			if number, ok := trfNumbers[*barcode.TrfId]; ok {
				row.TrfNumber = number
			} else {
				var owner models.TRF
				if err := db.Where("id = ?", *barcode.TrfId).First(&owner).Error; err == nil {
					row.TrfNumber = owner.TrfNumber
				}
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func buildWorkbook(rows []expiringRow) *excelize.File {
	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Kind")
	f.SetCellValue(sheet, "B1", "Number")
	f.SetCellValue(sheet, "C1", "TRF")
	f.SetCellValue(sheet, "D1", "Expiry Date")

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.Kind)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.Number)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.TrfNumber)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.ExpiryDate.Format("2006-01-02"))
	}

	return f
}

func sendReport(rows []expiringRow, until time.Time) error {
	if config.ReportTo == "" {
		return fmt.Errorf("REPORT_TO is not configured")
	}
	toEmails := strings.Split(config.ReportTo, ",")

	filename := fmt.Sprintf("expiry_report_%s.xlsx", time.Now().Format("20060102"))
	workbook := buildWorkbook(rows)

	subject := fmt.Sprintf("🧪 Expiry report: %d items expiring by %s", len(rows), until.Format("2006-01-02"))
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>TRF / barcode expiry report</h3>
				<p><strong>%d</strong> items expire on or before <strong>%s</strong>. Details attached.</p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, len(rows), until.Format("2006-01-02"))

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.ReportFrom)
	msg.SetHeader("To", toEmails...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		return workbook.Write(w)
	}))

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		fmt.Println("❌ Failed to send email:", err)
		return err
	}

	fmt.Println("✅ Expiry report sent to:", toEmails)
	return nil
}

func main() {
	config.LoadConfig()

	db, err := database.OpenDatabaseConnection()
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	fmt.Println("🚀 Expiry report processor running...")

	until := time.Now().AddDate(0, 0, config.ReportWindowDays)
	rows, err := collectExpiring(db, until)
	if err != nil {
		log.Fatalf("❌ Failed to collect expiring items: %v", err)
	}

	if len(rows) == 0 {
		fmt.Println("✅ Nothing expiring inside the report window")
		return
	}

	if err := sendReport(rows, until); err != nil {
		log.Fatalf("❌ Failed to send report: %v", err)
	}

	fmt.Println("✅ Done")
}
