// cmd/report/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/sellerops/profitkpi/internal/config"
	"github.com/sellerops/profitkpi/internal/service"
	"github.com/sellerops/profitkpi/internal/xlsx"
	"github.com/sellerops/profitkpi/pkg/logger"
)

func newPeriodFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     "month",
			Usage:    "Report month (1-12)",
			Required: true,
		},
		&cli.IntFlag{
			Name:     "year",
			Usage:    "Report year (e.g. 2025)",
			Required: true,
		},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "report",
		Usage: "Compute profit aggregates and KPI reports from workbook files",
		Commands: []*cli.Command{
			{
				Name:  "profit",
				Usage: "Compute the monthly cross-channel profit aggregate",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the combined profit workbook",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "etsy-file",
						Usage: "Additional per-shop Etsy workbook (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "export",
						Usage: "Write the summary workbook to the export directory",
					},
				}, newPeriodFlags()...),
				Action: runProfit,
			},
			{
				Name:  "kpi",
				Usage: "Compute the KPI report from a profit and a target workbook",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "profit-file",
						Usage:    "Path to the combined profit workbook",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "target-file",
						Usage:    "Path to the KPI target workbook",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "export",
						Usage: "Write the KPI workbook to the export directory",
					},
				}, newPeriodFlags()...),
				Action: runKPI,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runProfit(c *cli.Context) error {
	cfg := config.Load()
	logger.Setup(cfg.Server.LogLevel, cfg.Server.Mode)

	wb, err := xlsx.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	var shops []service.SheetReader
	for _, path := range c.StringSlice("etsy-file") {
		shop, err := xlsx.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open etsy workbook %s: %w", path, err)
		}
		defer shop.Close()
		shops = append(shops, shop)
	}

	profits := service.NewProfitService(cfg, nil)
	agg, err := profits.MonthlyAggregateShops(context.Background(), wb, shops, c.Int("month"), c.Int("year"), "")
	if err != nil {
		return err
	}

	if c.Bool("export") {
		exports := service.NewExportService(cfg.App.ExportDir, nil)
		path, err := exports.ProfitSummary(context.Background(), agg)
		if err != nil {
			return fmt.Errorf("failed to export profit summary: %w", err)
		}
		log.Printf("summary written to %s", path)
	}

	return printJSON(agg)
}

func runKPI(c *cli.Context) error {
	cfg := config.Load()
	logger.Setup(cfg.Server.LogLevel, cfg.Server.Mode)

	profitWB, err := xlsx.Open(c.String("profit-file"))
	if err != nil {
		return fmt.Errorf("failed to open profit workbook: %w", err)
	}
	defer profitWB.Close()

	targetWB, err := xlsx.Open(c.String("target-file"))
	if err != nil {
		return fmt.Errorf("failed to open target workbook: %w", err)
	}
	defer targetWB.Close()

	profits := service.NewProfitService(cfg, nil)
	kpis := service.NewKPIService(profits, nil)

	results, agg, err := kpis.Report(context.Background(), profitWB, targetWB, c.Int("month"), c.Int("year"), "")
	if err != nil {
		return err
	}

	if c.Bool("export") {
		exports := service.NewExportService(cfg.App.ExportDir, nil)
		path, err := exports.KPIReport(context.Background(), results, agg.Month, agg.Year)
		if err != nil {
			return fmt.Errorf("failed to export kpi report: %w", err)
		}
		log.Printf("kpi report written to %s", path)
	}

	return printJSON(map[string]any{
		"results":   results,
		"aggregate": agg,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
