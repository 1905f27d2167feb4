package services

import (
	"bytes"
	"fmt"
	"image"
	"math"

	_ "image/jpeg"
	_ "image/png"

	"mini_kpi_app_go/models"

	"github.com/xuri/excelize/v2"
)

const excelSheetName = "KPI"

// Thumbnail geometry inside the photos cell (pixels)
const (
	excelImageWidth  = 96
	excelImageHeight = 72
	excelImageGapX   = 6
	excelImagePadX   = 6
	excelImageTopY   = 4
)

var excelColumns = []string{
	"Datum", "Kupac", "Lokacija", "Vrsta kontakta", "Tema", "Zaključak",
	"Sljedeći korak", "CRM ažuriran", "Konkurencija", "Napomena", "Fotografije",
}

// BuildExcelReport produces the workbook artifact: one bold frozen header
// row, one data row per activity, and the photos of each row embedded
// left-to-right inside its photos cell. The photos column is sized to fit
// the largest photo count in this export so no row overflows. Photos that
// cannot be resolved are skipped; the row still renders with fewer images.
func BuildExcelReport(normalizer *PhotoNormalizer, rows []models.Activity, period ReportPeriod) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheetName); err != nil {
		return nil, "", fmt.Errorf("failed to set sheet name: %w", err)
	}

	if err := setUpExcelSheet(f, rows); err != nil {
		return nil, "", err
	}

	photosCol, _ := excelize.ColumnNumberToName(len(excelColumns))

	for i := range rows {
		a := &rows[i]
		rowIndex := i + 2 // below the header

		cells := []interface{}{
			a.Date, a.Customer, a.Location, a.ContactType, a.Subject, a.Conclusion,
			a.NextStep, crmLabel(a.CRMUpdated), a.CompetitionNote, a.Note, "",
		}
		if err := f.SetSheetRow(excelSheetName, fmt.Sprintf("A%d", rowIndex), &cells); err != nil {
			return nil, "", fmt.Errorf("failed to write row %d: %w", rowIndex, err)
		}

		if len(a.Photos) == 0 {
			continue
		}

		// Row height grows to fit one line of thumbnails.
		rowHeight := math.Ceil(pxToPt(excelImageHeight + 6))
		if err := f.SetRowHeight(excelSheetName, rowIndex, rowHeight); err != nil {
			return nil, "", fmt.Errorf("failed to set row height: %w", err)
		}

		anchor := fmt.Sprintf("%s%d", photosCol, rowIndex)
		slot := 0
		for j := range a.Photos {
			// Strictly sequential: one photo decode in flight at a time.
			img := normalizer.ImageBuffer(&a.Photos[j])
			if img == nil {
				continue
			}
			if err := embedThumbnail(f, anchor, img, slot); err != nil {
				// Unreadable image bytes degrade the row, not the report.
				continue
			}
			slot++
		}
	}

	name := ExcelReportFileName(period)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, name, nil
}

// setUpExcelSheet writes the header, styles, panes, filter, page layout and
// column widths. The photos column width is derived from the maximum photo
// count across all rows in this export.
func setUpExcelSheet(f *excelize.File, rows []models.Activity) error {
	header := make([]interface{}, len(excelColumns))
	for i, h := range excelColumns {
		header[i] = h
	}
	if err := f.SetSheetRow(excelSheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(excelColumns))
	photosCol := lastCol
	crmCol, _ := excelize.ColumnNumberToName(8)

	// Body alignment per column family, then the bold header on top.
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	centerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "middle"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	photoStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetColStyle(excelSheetName, "A:G", wrapStyle); err != nil {
		return fmt.Errorf("failed to set column style: %w", err)
	}
	if err := f.SetColStyle(excelSheetName, crmCol, centerStyle); err != nil {
		return fmt.Errorf("failed to set column style: %w", err)
	}
	if err := f.SetColStyle(excelSheetName, "I:J", wrapStyle); err != nil {
		return fmt.Errorf("failed to set column style: %w", err)
	}
	if err := f.SetColStyle(excelSheetName, photosCol, photoStyle); err != nil {
		return fmt.Errorf("failed to set column style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "middle", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(excelSheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetRowHeight(excelSheetName, 1, 22); err != nil {
		return fmt.Errorf("failed to set header height: %w", err)
	}

	if err := f.SetPanes(excelSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	if err := f.AutoFilter(excelSheetName, fmt.Sprintf("A1:%s1", lastCol), nil); err != nil {
		return fmt.Errorf("failed to set auto filter: %w", err)
	}

	orientation := "landscape"
	fitToWidth := 1
	fitToHeight := 0
	if err := f.SetPageLayout(excelSheetName, &excelize.PageLayoutOptions{
		Orientation: &orientation,
		FitToWidth:  &fitToWidth,
		FitToHeight: &fitToHeight,
	}); err != nil {
		return fmt.Errorf("failed to set page layout: %w", err)
	}

	if err := f.SetColWidth(excelSheetName, "A", "J", 22); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}

	photoColWidth := 32.0
	if maxPhotos := maxPhotoCount(rows); maxPhotos > 0 {
		totalPx := excelImagePadX + maxPhotos*excelImageWidth + (maxPhotos-1)*excelImageGapX + excelImagePadX
		photoColWidth = pixelsToColWidth(totalPx)
	}
	if err := f.SetColWidth(excelSheetName, photosCol, photosCol, photoColWidth); err != nil {
		return fmt.Errorf("failed to set photos column width: %w", err)
	}

	return nil
}

// embedThumbnail places one image into the photos cell of its row, packed
// horizontally at a fixed footprint.
func embedThumbnail(f *excelize.File, anchor string, img *ImageData, slot int) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Bytes))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("unreadable image dimensions")
	}

	offsetX := excelImagePadX + slot*(excelImageWidth+excelImageGapX)
	return f.AddPictureFromBytes(excelSheetName, anchor, &excelize.Picture{
		Extension: "." + img.Ext,
		File:      img.Bytes,
		Format: &excelize.GraphicOptions{
			OffsetX: offsetX,
			OffsetY: excelImageTopY,
			ScaleX:  float64(excelImageWidth) / float64(cfg.Width),
			ScaleY:  float64(excelImageHeight) / float64(cfg.Height),
		},
	})
}

func maxPhotoCount(rows []models.Activity) int {
	max := 0
	for i := range rows {
		if n := len(rows[i].Photos); n > max {
			max = n
		}
	}
	return max
}

// pxToPt converts 96dpi pixels to points
func pxToPt(px int) float64 {
	return float64(px) * 0.75
}

// pixelsToColWidth converts a pixel width to Excel character-based column
// width, capped at the format's maximum of 255.
func pixelsToColWidth(px int) float64 {
	width := (((float64(px)/7)*256 - math.Floor(128.0/7)) / 256)
	width = math.Round(width*100) / 100
	if width > 255 {
		return 255
	}
	return width
}
