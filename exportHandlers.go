package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/models"
	"github.com/fieldworkslab/ratebook_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "exportHandlers.go", "writeWorkbook", filename, nil, err)
	}
}

// exportOverheadHandler renders the overhead worksheet and its derived
// figures as a two-column workbook.
func exportOverheadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.ExcelExportDisabled() {
			c.JSON(http.StatusNotFound, gin.H{"error": "export disabled"})
			return
		}

		resp, err := models.GetOverhead(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if resp.Inputs == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no overhead saved yet"})
			return
		}

		f := excelize.NewFile()
		sheet := "Overhead"
		f.SetSheetName("Sheet1", sheet)

		f.SetCellValue(sheet, "A1", "Item")
		f.SetCellValue(sheet, "B1", "Value")

		rows := []struct {
			label string
			value string
		}{
			{"Total Annual Overhead", resp.Calculations.TotalAnnualOverhead.StringFixed(2)},
			{"Total Billable Hours", resp.Calculations.TotalBillableHours.StringFixed(2)},
			{"Billable Hours Per Truck", resp.Calculations.BillableHoursPerTruck.StringFixed(2)},
			{"Revenue Target", resp.Calculations.RevenueTarget.StringFixed(2)},
			{"Overhead Hourly Rate", resp.Calculations.OverheadHourlyRate.StringFixed(2)},
			{"Tech Hourly Addon", resp.Calculations.TechHourlyAddon.StringFixed(2)},
			{"Helper Hourly Addon", resp.Calculations.HelperHourlyAddon.StringFixed(2)},
			{"Final Billable Hourly Rate", resp.Calculations.FinalBillableHourlyRate.StringFixed(2)},
			{"Est Yearly Gross Revenue", resp.Calculations.EstYearlyGrossRevenue.StringFixed(2)},
			{"Annual Per Truck", resp.Calculations.AnnualPerTruck.StringFixed(2)},
			{"Daily Revenue Total", resp.Calculations.DailyRevenueTotal.StringFixed(2)},
			{"Daily Revenue Per Truck", resp.Calculations.DailyRevenuePerTruck.StringFixed(2)},
			{"Overhead % Of Last Year Revenue", resp.Calculations.OverheadPercentOfLastYear.String()},
		}
		for i, row := range rows {
			f.SetCellValue(sheet, "A"+fmt.Sprint(i+2), row.label)
			f.SetCellValue(sheet, "B"+fmt.Sprint(i+2), row.value)
		}

		writeWorkbook(c, f, "overhead.xlsx")
	}
}

// exportPricingMatrixHandler renders the service book priced at the current
// hourly rate.
func exportPricingMatrixHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.ExcelExportDisabled() {
			c.JSON(http.StatusNotFound, gin.H{"error": "export disabled"})
			return
		}

		resp, err := models.GetPricingMatrix(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if resp.Inputs == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pricing matrix saved yet"})
			return
		}

		f := excelize.NewFile()
		sheet := "PricingMatrix"
		f.SetSheetName("Sheet1", sheet)

		f.SetCellValue(sheet, "A1", "Service")
		f.SetCellValue(sheet, "B1", "Category")
		f.SetCellValue(sheet, "C1", "MaterialPrice")
		f.SetCellValue(sheet, "D1", "LaborPrice")
		f.SetCellValue(sheet, "E1", "Price")
		f.SetCellValue(sheet, "F1", "GrossProfit")
		f.SetCellValue(sheet, "G1", "MarginPct")

		for i, calc := range resp.Calculations {
			rowNo := i + 2
			f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), calc.Name)
			f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), calc.Category)
			f.SetCellValue(sheet, "C"+fmt.Sprint(rowNo), calc.MaterialPrice.StringFixed(2))
			f.SetCellValue(sheet, "D"+fmt.Sprint(rowNo), calc.LaborPrice.StringFixed(2))
			if calc.TotalPrice != nil {
				f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), calc.TotalPrice.StringFixed(2))
			}
			if calc.GrossProfit != nil {
				f.SetCellValue(sheet, "F"+fmt.Sprint(rowNo), calc.GrossProfit.StringFixed(2))
			}
			f.SetCellValue(sheet, "G"+fmt.Sprint(rowNo), calc.MarginPct.String())
		}

		writeWorkbook(c, f, "pricing-matrix.xlsx")
	}
}

// exportJobHandler renders one costed job as a line-item workbook with a
// totals row.
func exportJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.ExcelExportDisabled() {
			c.JSON(http.StatusNotFound, gin.H{"error": "export disabled"})
			return
		}

		jobId, ok := jobIdParam(c)
		if !ok {
			return
		}
		resp, err := models.GetJobById(c.Request.Context(), jobId)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		f := excelize.NewFile()
		sheet := "Job"
		f.SetSheetName("Sheet1", sheet)

		f.SetCellValue(sheet, "A1", "Item")
		f.SetCellValue(sheet, "B1", "Category")
		f.SetCellValue(sheet, "C1", "Qty")
		f.SetCellValue(sheet, "D1", "UnitPrice")
		f.SetCellValue(sheet, "E1", "LineTotal")
		f.SetCellValue(sheet, "F1", "LineProfit")
		f.SetCellValue(sheet, "G1", "MarginPct")

		rowNo := 2
		for _, calc := range resp.Calculations {
			f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), calc.Name)
			f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), calc.Category)
			if calc.Quantity != nil {
				f.SetCellValue(sheet, "C"+fmt.Sprint(rowNo), calc.Quantity.String())
			}
			f.SetCellValue(sheet, "D"+fmt.Sprint(rowNo), calc.UnitPrice.StringFixed(2))
			if calc.LineTotal != nil {
				f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), calc.LineTotal.StringFixed(2))
			}
			if calc.LineProfit != nil {
				f.SetCellValue(sheet, "F"+fmt.Sprint(rowNo), calc.LineProfit.StringFixed(2))
			}
			f.SetCellValue(sheet, "G"+fmt.Sprint(rowNo), calc.MarginPct.String())
			rowNo++
		}

		rowNo++
		f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), "Totals")
		f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), resp.Totals.TotalRevenue.StringFixed(2))
		f.SetCellValue(sheet, "F"+fmt.Sprint(rowNo), resp.Totals.TotalProfit.StringFixed(2))
		f.SetCellValue(sheet, "G"+fmt.Sprint(rowNo), resp.Totals.OverallMarginPct.String())

		writeWorkbook(c, f, fmt.Sprintf("job-%d.xlsx", jobId))
	}
}
